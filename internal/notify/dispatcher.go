package notify

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"stockwatch/internal/models"
	"stockwatch/internal/store"
	"stockwatch/pkg/utils"
)

// Dispatcher turns recorded alerts into outbound messages and writes the
// delivery outcome back onto the alert. An alert is never deleted or rolled
// back when delivery fails; it records that the threshold was crossed, which
// stays true regardless of the notification outcome.
type Dispatcher struct {
	store     store.DataStore
	messenger Messenger
	channel   models.Channel
	limiter   *rate.Limiter
	logger    zerolog.Logger
}

// NewDispatcher creates a dispatcher sending on the given channel.
// requestsPerMinute bounds the pacing between provider calls in SendPending.
func NewDispatcher(st store.DataStore, messenger Messenger, channel models.Channel, requestsPerMinute int, logger zerolog.Logger) *Dispatcher {
	if requestsPerMinute < 1 {
		requestsPerMinute = 30
	}
	return &Dispatcher{
		store:     st,
		messenger: messenger,
		channel:   channel,
		limiter:   rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
		logger:    logger,
	}
}

// SendReport summarizes a SendPending pass.
type SendReport struct {
	Attempted int
	Sent      int
	Failed    int
}

// Send formats and delivers the notification for one alert, then marks the
// delivery outcome. The returned error reflects the delivery attempt; the
// outcome has already been persisted either way unless the store itself
// failed.
func (d *Dispatcher) Send(ctx context.Context, alert *models.Alert) error {
	stock, err := d.store.GetStock(ctx, alert.Symbol)
	if err != nil {
		return err
	}

	body := utils.BuildAlertMessage(stock.Symbol, stock.Name, alert.PercentChange,
		alert.ThresholdAtTime, alert.PriceBefore, alert.PriceAfter)

	ref, sendErr := d.messenger.Send(ctx, body, d.channel)
	if sendErr != nil {
		d.logger.Error().
			Err(sendErr).
			Str("symbol", alert.Symbol).
			Int64("alert_id", alert.ID).
			Msg("Notification delivery failed")

		if err := d.store.MarkDelivery(ctx, alert.ID, false, d.channel, sendErr.Error()); err != nil {
			return err
		}
		return sendErr
	}

	d.logger.Info().
		Str("symbol", alert.Symbol).
		Int64("alert_id", alert.ID).
		Str("channel", string(d.channel)).
		Str("provider_ref", ref).
		Msg("Notification delivered")

	return d.store.MarkDelivery(ctx, alert.ID, true, d.channel, "")
}

// SendPending attempts delivery for every undelivered alert. Each alert is
// attempted independently; one failure does not abort the rest.
func (d *Dispatcher) SendPending(ctx context.Context) (SendReport, error) {
	var report SendReport

	pending, err := d.store.GetPendingAlerts(ctx)
	if err != nil {
		return report, err
	}

	for i := range pending {
		if err := d.limiter.Wait(ctx); err != nil {
			return report, err
		}

		report.Attempted++
		if err := d.Send(ctx, &pending[i]); err != nil {
			report.Failed++
			continue
		}
		report.Sent++
	}

	d.logger.Info().
		Int("attempted", report.Attempted).
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Msg("Pending notifications processed")

	return report, nil
}
