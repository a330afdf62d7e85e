// Package models defines the core data types for the stock monitor.
package models

import "time"

// Stock represents a monitored stock with its alert threshold.
type Stock struct {
	ID        int64
	Symbol    string
	Name      string
	Threshold float64 // minimum absolute percentage change that triggers an alert
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StockUpdate holds optional field updates for a stock.
// Nil fields are left unchanged.
type StockUpdate struct {
	Name      *string
	Threshold *float64
	Active    *bool
}

// PriceObservation represents one recorded closing price for a stock on a date.
// Observations are immutable; corrections are made by appending new ones.
type PriceObservation struct {
	ID            int64
	StockID       int64
	Date          time.Time
	ClosePrice    float64
	PreviousClose *float64 // nil for the very first observation of a stock
	PercentChange *float64 // nil when previous close is nil or zero
	CreatedAt     time.Time
}

// DashboardSummary holds aggregate statistics for reporting.
type DashboardSummary struct {
	TotalStocks     int
	ActiveStocks    int
	AlertsLast24h   int
	LastPriceUpdate *time.Time
}
