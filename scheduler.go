package devblog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs periodic reindex jobs.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, logger: logger}, nil
}

// ScheduleReindex runs indexer.Sync every interval. A run that is still going
// when the next one is due delays it instead of overlapping.
func (s *Scheduler) ScheduleReindex(ctx context.Context, interval time.Duration, indexer *Indexer) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, err := indexer.Sync(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("scheduled reindex failed", "error", err)
			}
		}),
		gocron.WithName("content-reindex"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create reindex job: %w", err)
	}
	s.logger.Info("Scheduled periodic reindex", "interval", interval, "job", job.ID().String())
	return job.ID().String(), nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
