package usecase

import (
	"context"
	"log/slog"
	"time"

	"FeedbackPulse/internal/ports"
)

// ReportScheduler wires the ticker-like driver with the aggregation pipeline.
type ReportScheduler struct {
	driver   ports.Scheduler
	reporter *Reporter
	logger   *slog.Logger
}

// NewReportScheduler returns a helper to start/stop the recurring report job.
func NewReportScheduler(driver ports.Scheduler, reporter *Reporter, logger *slog.Logger) *ReportScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportScheduler{driver: driver, reporter: reporter, logger: logger}
}

// Start registers the aggregation run with the provided scheduler.
func (s *ReportScheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.reporter == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if _, err := s.reporter.GenerateWeeklyReport(ctx); err != nil {
			s.logger.Error("scheduled weekly report failed", "trigger", trigger, "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *ReportScheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
