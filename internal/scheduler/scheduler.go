// Package scheduler wires up the cron job that periodically re-warms the job
// snapshot cache so trainee fetches rarely hit PostgreSQL.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Refresher reloads a cached snapshot and returns the record count.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Scheduler wraps robfig/cron and manages the refresh loop.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	spec      string // cron spec, e.g. "@every 15m"
	log       zerolog.Logger

	mu   sync.Mutex
	runs int
}

// New creates a Scheduler that fires every intervalMinutes minutes.
func New(refresher Refresher, intervalMinutes int, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		spec:      fmt.Sprintf("@every %dm", intervalMinutes),
		log:       log,
	}
}

// Spec returns the cron spec the scheduler registers.
func (s *Scheduler) Spec() string { return s.spec }

// Start registers the job and starts the scheduler. Also runs one refresh
// immediately so the cache is warm before the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.runRefresh(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("[scheduler] Cron started")

	go s.runRefresh(ctx)
	return nil
}

// Stop gracefully shuts down the scheduler and waits for a cron-triggered
// refresh that is still running.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("[scheduler] Cron stopped")
}

// Runs returns how many refresh cycles have completed.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *Scheduler) runRefresh(ctx context.Context) {
	n, err := s.refresher.Refresh(ctx)

	s.mu.Lock()
	s.runs++
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Msg("[scheduler] Cache refresh failed")
		return
	}
	s.log.Info().Int("jobs", n).Msg("[scheduler] Cache refreshed")
}
