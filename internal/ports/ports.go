package ports

import (
	"context"
	"time"

	"FeedbackPulse/internal/domain"
)

// FeedbackStore persists submissions durably and serves range queries for
// aggregation. Save upserts by id and back-fills id/createdAt exactly once
// when the caller left them unset. Implementations must be safe for
// concurrent use.
type FeedbackStore interface {
	Save(ctx context.Context, feedback *domain.Feedback) error
	FindByPeriod(ctx context.Context, from, to time.Time) ([]domain.Feedback, error)
}

// AlertPublisher hands critical feedback to the durable alert queue.
// Fire-and-forget from the ingestion pipeline's perspective.
type AlertPublisher interface {
	PublishCritical(ctx context.Context, feedback domain.Feedback) error
}

// AdminNotifier delivers a formatted alert message to a human channel.
type AdminNotifier interface {
	Send(ctx context.Context, message string) error
}

// ReportStore writes the weekly report document and resolves where it can
// be fetched from.
type ReportStore interface {
	SaveWeeklyReport(ctx context.Context, doc domain.ReportDocument) (string, error)
	GetLocationURL(locationKey string) string
}

// Scheduler controls when the aggregation pipeline executes.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
