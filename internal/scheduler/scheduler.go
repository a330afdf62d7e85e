// Package scheduler runs the periodic background jobs: daily price updates
// and news refreshes.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Worker is a periodic background job.
type Worker interface {
	Name() string
	Interval() time.Duration
	Enabled() bool
	Run(ctx context.Context) error
}

// Scheduler runs each enabled worker on its own ticker until the context is
// cancelled or Stop is called.
type Scheduler struct {
	workers []Worker
	logger  zerolog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewScheduler creates a scheduler for the given workers.
func NewScheduler(logger zerolog.Logger, workers ...Worker) *Scheduler {
	return &Scheduler{
		workers: workers,
		logger:  logger,
	}
}

// Start launches one goroutine per enabled worker. Each worker runs once
// immediately, then on every tick of its interval.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)

	for _, w := range s.workers {
		if !w.Enabled() {
			s.logger.Info().Str("worker", w.Name()).Msg("Worker disabled, skipping")
			continue
		}
		s.wg.Add(1)
		go s.runWorker(ctx, w)
	}
}

// Stop cancels all workers and waits for them to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.started = false
	s.mu.Unlock()
}

// Wait blocks until all workers have exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) runWorker(ctx context.Context, w Worker) {
	defer s.wg.Done()

	log := s.logger.With().Str("worker", w.Name()).Logger()
	log.Info().Dur("interval", w.Interval()).Msg("Worker started")

	s.runOnce(ctx, w, log)

	ticker := time.NewTicker(w.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx, w, log)
		}
	}
}

// runOnce executes one pass of a worker. A panicking worker is logged and
// kept on its schedule rather than taking down the process.
func (s *Scheduler) runOnce(ctx context.Context, w Worker, log zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Worker panicked")
		}
	}()

	start := time.Now()
	if err := w.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error().Err(err).Dur("duration", time.Since(start)).Msg("Worker pass failed")
		return
	}
	log.Info().Dur("duration", time.Since(start)).Msg("Worker pass complete")
}
