// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"stockwatch/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Stocks
	CreateStock(ctx context.Context, symbol, name string, threshold float64) (*models.Stock, error)
	GetStock(ctx context.Context, symbol string) (*models.Stock, error)
	ListStocks(ctx context.Context, activeOnly bool) ([]models.Stock, error)
	UpdateStock(ctx context.Context, symbol string, upd models.StockUpdate) (*models.Stock, error)
	DeleteStock(ctx context.Context, symbol string) error

	// Price series
	AddPrice(ctx context.Context, symbol string, date time.Time, closePrice float64) (*models.PriceObservation, error)
	GetPriceHistory(ctx context.Context, symbol string, days int) ([]models.PriceObservation, error)
	LatestPrice(ctx context.Context, symbol string) (*models.PriceObservation, error)

	// Alert ledger
	RecordAlertIfAbsent(ctx context.Context, symbol string, obs *models.PriceObservation) (*models.Alert, bool, error)
	MarkDelivery(ctx context.Context, alertID int64, delivered bool, channel models.Channel, errDetail string) error
	GetAlerts(ctx context.Context, filter AlertFilter) ([]models.Alert, error)
	GetPendingAlerts(ctx context.Context) ([]models.Alert, error)

	// News archive
	SaveArticle(ctx context.Context, symbol string, article *models.NewsArticle) (bool, error)
	HasArticleURL(ctx context.Context, symbol, url string) (bool, error)
	GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error)

	// Reporting
	Summary(ctx context.Context) (*models.DashboardSummary, error)

	// Lifecycle
	Close() error
}

// AlertFilter represents filters for querying alerts.
type AlertFilter struct {
	Symbol string // empty for all stocks
	Days   int    // look-back window, defaults to 7
}
