// Package scheduler runs the portal's periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/farellandr/certportal/internal/state"
)

const (
	FlushSchedule     = "@every 1m"
	RehydrateSchedule = "@every 15m"
)

// Hydrator loads every collection from the remote store.
type Hydrator interface {
	Hydrate(ctx context.Context) (state.Hydrated, error)
}

type Scheduler struct {
	cron     *cron.Cron
	outbox   *state.Outbox
	store    *state.Store
	hydrator Hydrator
	logger   *slog.Logger
}

func New(outbox *state.Outbox, store *state.Store, hydrator Hydrator, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:     cron.New(),
		outbox:   outbox,
		store:    store,
		hydrator: hydrator,
		logger:   logger,
	}
}

// addJob registers a job with a timeout and error logging.
func (s *Scheduler) addJob(schedule string, timeout time.Duration, name string, job func(context.Context) error) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()
		if err := job(ctx); err != nil {
			s.logger.Error("scheduled job failed", "job", name, "error", err)
			return
		}
		s.logger.Debug("scheduled job finished", "job", name, "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) Start() error {
	if err := s.addJob(FlushSchedule, 30*time.Second, "outbox_flush", s.FlushOutbox); err != nil {
		return err
	}
	if err := s.addJob(RehydrateSchedule, 2*time.Minute, "rehydrate", s.Rehydrate); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop halts the schedule and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) FlushOutbox(ctx context.Context) error {
	pending := len(s.outbox.Pending())
	if pending == 0 {
		return nil
	}
	synced := s.outbox.Flush(ctx)
	if synced < pending {
		return fmt.Errorf("outbox flush synced %d of %d ops", synced, pending)
	}
	return nil
}

// Rehydrate replaces the in-process collections with a fresh load.
func (s *Scheduler) Rehydrate(ctx context.Context) error {
	h, err := s.hydrator.Hydrate(ctx)
	if err != nil {
		return err
	}
	s.store.Dispatch(ctx, h)
	return nil
}
