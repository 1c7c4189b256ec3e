package cron

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper is what the runner ticks. Implemented by the booking
// auto-complete usecase.
type Sweeper interface {
	ExecuteForSalon(ctx context.Context, salonID uint) (int, error)
}

// SalonLister enumerates the salons a sweep has to visit.
type SalonLister interface {
	ListActiveSalonIDs(ctx context.Context) ([]uint, error)
}

// Runner drives the auto-complete sweep on a fixed interval. One
// runner per process; Start is idempotent and Stop is safe to call
// from a shutdown path even if Start never ran.
type Runner struct {
	sweeper  Sweeper
	salons   SalonLister
	interval time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewRunner(sweeper Sweeper, salons SalonLister, interval time.Duration, log zerolog.Logger) *Runner {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Runner{
		sweeper:  sweeper,
		salons:   salons,
		interval: interval,
		log:      log.With().Str("component", "cron").Logger(),
	}
}

func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	go r.loop(ctx)
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.doneCh)

	r.log.Info().Dur("interval", r.interval).Msg("sweep runner started")

	// Run once at startup so a restarted process catches up
	// immediately instead of waiting a full interval.
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("sweep runner stopped by context")
			return
		case <-r.stopCh:
			r.log.Info().Msg("sweep runner stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// Stop signals the loop and waits for the in-flight sweep to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stopCh)
	done := r.doneCh
	r.mu.Unlock()

	<-done
}

// RunOnce sweeps every active salon. A failing salon does not abort
// the pass; it is logged and the sweep moves on.
func (r *Runner) RunOnce(ctx context.Context) int {
	ids, err := r.salons.ListActiveSalonIDs(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to list salons for sweep")
		return 0
	}

	total := 0
	for _, id := range ids {
		n, err := r.sweeper.ExecuteForSalon(ctx, id)
		total += n
		if err != nil {
			r.log.Error().Err(err).Uint("salon_id", id).Msg("sweep failed for salon")
		}
	}

	if total > 0 {
		r.log.Info().Int("completed", total).Msg("sweep pass finished")
	}
	return total
}
