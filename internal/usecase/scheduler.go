package usecase

import (
	"context"
	"log/slog"
	"time"

	"ArticlePublisher/internal/ports"
)

// Scheduler wires the cron driver with the publishing use case.
type Scheduler struct {
	driver    ports.Scheduler
	publisher *Publisher
	logger    *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, publisher *Publisher, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, publisher: publisher, logger: logger}
}

// Start registers the publisher with the provided scheduler. A failed run is
// logged and the next trigger tries again.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.publisher == nil {
		return nil
	}

	job := func(trigger time.Time) {
		result, err := s.publisher.Publish(ctx)
		if s.logger == nil {
			return
		}
		if err != nil {
			s.logger.Error("scheduled run failed", "trigger", trigger, "error", err)
			return
		}
		s.logger.Info("scheduled run done", "trigger", trigger, "id", result.Record.ID)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
