package usecase

import (
	"context"
	"log/slog"
	"time"

	"FeedbackPulse/internal/domain"
	"FeedbackPulse/internal/ports"
)

// SubmitRequest carries the raw, already-normalized submission fields.
// Score is a pointer so an absent rating can be told apart from zero.
type SubmitRequest struct {
	Description string
	Score       *int
	Urgency     string
}

// SubmitResponse echoes what was durably recorded.
type SubmitResponse struct {
	ID          string
	Description string
	Score       int
	CreatedAt   time.Time
	Status      string
}

// Ingestion implements the feedback submission workflow: validate, persist,
// then best-effort publish an alert for critical scores.
type Ingestion struct {
	store     ports.FeedbackStore
	publisher ports.AlertPublisher
	clock     func() time.Time
	logger    *slog.Logger
}

// NewIngestion constructs the submission pipeline.
func NewIngestion(store ports.FeedbackStore, publisher ports.AlertPublisher, logger *slog.Logger) *Ingestion {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestion{
		store:     store,
		publisher: publisher,
		clock:     time.Now,
		logger:    logger,
	}
}

// WithClock overrides the time source; used by tests.
func (i *Ingestion) WithClock(clock func() time.Time) *Ingestion {
	i.clock = clock
	return i
}

// Submit validates and records one piece of feedback. Persistence is the
// source of truth: a failed save rejects the submission, while a failed
// alert publish is logged and absorbed because the write already happened.
func (i *Ingestion) Submit(ctx context.Context, req SubmitRequest) (SubmitResponse, error) {
	if req.Score == nil {
		return SubmitResponse{}, &domain.ValidationError{Field: "score", Reason: "is required"}
	}

	feedback, err := domain.NewFeedback(req.Description, *req.Score, req.Urgency, i.clock())
	if err != nil {
		return SubmitResponse{}, err
	}

	if err := i.store.Save(ctx, &feedback); err != nil {
		return SubmitResponse{}, &domain.PersistenceError{Op: "save feedback", Err: err}
	}

	if feedback.IsCritical() && i.publisher != nil {
		if err := i.publisher.PublishCritical(ctx, feedback); err != nil {
			i.logger.Error("critical alert publish failed, submission already recorded",
				"feedback_id", feedback.ID, "error", err)
		}
	}

	return SubmitResponse{
		ID:          feedback.ID,
		Description: feedback.Description,
		Score:       feedback.Score.Value(),
		CreatedAt:   feedback.CreatedAt,
		Status:      "received",
	}, nil
}
