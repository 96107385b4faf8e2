package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Feedback is the core entity recorded per survey submission. Treated as
// read-only once constructed; storage mappers rebuild it via RehydrateFeedback.
type Feedback struct {
	ID          string
	Description string
	Score       Score
	Urgency     Urgency
	CreatedAt   time.Time
}

// NewFeedback validates raw submission fields and mints a fresh entity with
// a server-generated id and the supplied creation time.
func NewFeedback(description string, score int, urgency string, now time.Time) (Feedback, error) {
	f, err := buildFeedback(description, score, urgency)
	if err != nil {
		return Feedback{}, err
	}

	f.ID = uuid.NewString()
	if now.IsZero() {
		now = time.Now()
	}
	f.CreatedAt = now
	return f, nil
}

// RehydrateFeedback rebuilds an entity from its stored representation. The
// id and timestamp come from storage; value objects are still validated.
func RehydrateFeedback(id, description string, score int, urgency string, createdAt time.Time) (Feedback, error) {
	f, err := buildFeedback(description, score, urgency)
	if err != nil {
		return Feedback{}, err
	}

	f.ID = id
	f.CreatedAt = createdAt
	return f, nil
}

func buildFeedback(description string, score int, urgency string) (Feedback, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Feedback{}, &ValidationError{Field: "description", Reason: "must not be blank"}
	}

	s, err := NewScore(score)
	if err != nil {
		return Feedback{}, err
	}

	u, err := ParseUrgency(urgency)
	if err != nil {
		return Feedback{}, err
	}

	return Feedback{Description: description, Score: s, Urgency: u}, nil
}

// IsCritical reports whether this feedback warrants an admin alert.
func (f Feedback) IsCritical() bool { return f.Score.IsCritical() }
