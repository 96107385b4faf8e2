package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"FeedbackPulse/internal/domain"
	"FeedbackPulse/internal/ports"
)

// MemoryStore is the reference FeedbackStore used by tests and throwaway
// environments. Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	feedbacks map[string]domain.Feedback
}

var _ ports.FeedbackStore = (*MemoryStore)(nil)

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{feedbacks: map[string]domain.Feedback{}}
}

func (s *MemoryStore) Save(_ context.Context, feedback *domain.Feedback) error {
	backfill(feedback)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedbacks[feedback.ID] = *feedback
	return nil
}

func (s *MemoryStore) FindByPeriod(_ context.Context, from, to time.Time) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Feedback
	for _, f := range s.feedbacks {
		if f.CreatedAt.Before(from) || f.CreatedAt.After(to) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// backfill assigns id and creation time exactly once when the caller left
// them unset. The ingestion pipeline always sets both; this guards direct
// port users.
func backfill(feedback *domain.Feedback) {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now()
	}
}
