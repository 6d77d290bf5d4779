// Package scheduler wires the cron job that periodically re-runs the
// ingestion pipeline so the served catalog stays fresh.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mcpcatalog/registry/internal/ingest"
)

// Scheduler wraps robfig/cron and manages the refresh loop.
type Scheduler struct {
	cron   *cron.Cron
	runner *ingest.Runner
	spec   string // e.g. "@every 6h"
	log    *zap.Logger
}

// New creates a Scheduler that fires every intervalHours hours.
func New(runner *ingest.Runner, intervalHours int, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		spec:   fmt.Sprintf("@every %dh", intervalHours),
		log:    log,
	}
}

// Start registers the job and starts the scheduler. One refresh runs
// immediately so the catalog is populated without waiting for the first
// tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info("refresh scheduler started", zap.String("spec", s.spec))

	go s.refresh(ctx)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("refresh scheduler stopped")
}

func (s *Scheduler) refresh(ctx context.Context) {
	s.log.Info("scheduled catalog refresh started")
	if err := s.runner.Run(ctx); err != nil {
		s.log.Error("scheduled catalog refresh failed", zap.Error(err))
		return
	}
	s.log.Info("scheduled catalog refresh complete")
}
