package models

import "time"

// Channel identifies the delivery channel for an alert notification.
type Channel string

const (
	ChannelNone     Channel = "none"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
)

// Alert represents a persisted threshold crossing.
//
// The threshold is captured at trigger time so later threshold changes do not
// rewrite history. At most one alert exists per stock per calendar day; the
// trigger day of the price observation is the dedupe key.
type Alert struct {
	ID              int64
	StockID         int64
	Symbol          string
	TriggeredAt     time.Time
	PercentChange   float64 // signed, so direction is recoverable
	ThresholdAtTime float64
	PriceBefore     *float64
	PriceAfter      *float64
	Delivery        DeliveryStatus
}

// DeliveryStatus tracks the notification outcome for an alert, independent of
// alert creation. Delivery fields are the only alert fields mutated after
// creation.
type DeliveryStatus struct {
	Delivered bool
	Channel   Channel
	Error     string // detail of the last failed attempt, empty otherwise
}

// Direction returns "up" or "down" for the alert's price move.
func (a *Alert) Direction() string {
	if a.PercentChange >= 0 {
		return "up"
	}
	return "down"
}
