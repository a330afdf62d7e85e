package scheduler

import (
	"context"
	"time"

	"stockwatch/internal/monitor"
	"stockwatch/internal/notify"
)

// PriceWorker periodically updates all active stocks and, when notifications
// are enabled, dispatches any alerts still pending delivery.
type PriceWorker struct {
	updater    *monitor.Updater
	dispatcher *notify.Dispatcher
	interval   time.Duration
	notifyOn   bool
}

// NewPriceWorker creates the periodic price update job. dispatcher may be nil
// when notifications are disabled.
func NewPriceWorker(updater *monitor.Updater, dispatcher *notify.Dispatcher, interval time.Duration, notifyOn bool) *PriceWorker {
	return &PriceWorker{
		updater:    updater,
		dispatcher: dispatcher,
		interval:   interval,
		notifyOn:   notifyOn,
	}
}

func (w *PriceWorker) Name() string            { return "price-update" }
func (w *PriceWorker) Interval() time.Duration { return w.interval }
func (w *PriceWorker) Enabled() bool           { return true }

// Run performs one batch price update followed by a delivery pass over
// pending alerts.
func (w *PriceWorker) Run(ctx context.Context) error {
	if _, err := w.updater.UpdateAll(ctx); err != nil {
		return err
	}
	if w.notifyOn && w.dispatcher != nil {
		if _, err := w.dispatcher.SendPending(ctx); err != nil {
			return err
		}
	}
	return nil
}

// NewsWorker periodically refreshes the news archive for all active stocks.
type NewsWorker struct {
	updater  *monitor.Updater
	interval time.Duration
	limit    int
}

// NewNewsWorker creates the periodic news refresh job.
func NewNewsWorker(updater *monitor.Updater, interval time.Duration, limit int) *NewsWorker {
	return &NewsWorker{
		updater:  updater,
		interval: interval,
		limit:    limit,
	}
}

func (w *NewsWorker) Name() string            { return "news-refresh" }
func (w *NewsWorker) Interval() time.Duration { return w.interval }
func (w *NewsWorker) Enabled() bool           { return true }

func (w *NewsWorker) Run(ctx context.Context) error {
	_, err := w.updater.FetchAllNews(ctx, w.limit)
	return err
}
