package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"FeedbackPulse/internal/domain"
	"FeedbackPulse/internal/ports"
)

// AlertConsumer turns a dequeued critical-feedback event into a delivered
// admin message. Stateless; duplicates from at-least-once delivery are
// harmless since formatting has no side effect.
type AlertConsumer struct {
	notifier ports.AdminNotifier
	clock    func() time.Time
	logger   *slog.Logger
}

// NewAlertConsumer constructs the consumer-side use case.
func NewAlertConsumer(notifier ports.AdminNotifier, logger *slog.Logger) *AlertConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertConsumer{notifier: notifier, clock: time.Now, logger: logger}
}

// WithClock overrides the fallback time source; used by tests.
func (c *AlertConsumer) WithClock(clock func() time.Time) *AlertConsumer {
	c.clock = clock
	return c
}

// NotifyAdmin formats and delivers the alert. Delivery failure is wrapped
// and returned so the messaging layer can redeliver; unlike the producer
// side, swallowing it here would lose the alert for good.
func (c *AlertConsumer) NotifyAdmin(ctx context.Context, feedback domain.Feedback) error {
	message := formatAlert(feedback, c.clock)

	if err := c.notifier.Send(ctx, message); err != nil {
		return &domain.NotificationError{Op: "send admin alert", Err: err}
	}

	c.logger.Info("critical alert delivered", "feedback_id", feedback.ID)
	return nil
}

func formatAlert(feedback domain.Feedback, clock func() time.Time) string {
	sentAt := feedback.CreatedAt
	if sentAt.IsZero() {
		sentAt = clock()
	}

	return fmt.Sprintf("CRITICAL FEEDBACK ALERT\nID: %s\nDescription: %s\nScore: %d/10\nUrgency: %s\nSent at: %s",
		feedback.ID,
		feedback.Description,
		feedback.Score.Value(),
		feedback.Urgency,
		sentAt.Format(time.RFC3339))
}
