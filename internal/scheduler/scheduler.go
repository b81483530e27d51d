package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/cropwise/cropwise/internal/store"
)

// Scheduler runs the periodic persistence snapshot. Write-through after each
// mutation is asynchronous and best-effort, so a crash or a transient backend
// failure can drop the tail of recent mutations; the snapshot re-persists
// current memory on a schedule to shrink that window.
type Scheduler struct {
	cron     *cron.Cron
	store    *store.Store
	schedule string
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(s *store.Store, schedule string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(),
		store:    s,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the snapshot job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.snapshot); err != nil {
		s.logger.Error("failed to schedule persistence snapshot", zap.Error(err))
		return
	}

	s.cron.Start()
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) snapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.store.Snapshot(ctx)
	s.logger.Info("persistence snapshot completed")
}
