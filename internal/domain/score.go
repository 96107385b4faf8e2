package domain

import "fmt"

const (
	minScore = 0
	maxScore = 10

	// Feedback scored at or below this value triggers an admin alert.
	criticalThreshold = 3
)

// Score is a validated survey rating in [0,10]. The zero value is a valid
// score of zero; use NewScore to construct from untrusted input.
type Score struct {
	value int
}

// NewScore validates the raw rating and wraps it.
func NewScore(value int) (Score, error) {
	if value < minScore || value > maxScore {
		return Score{}, &ValidationError{
			Field:  "score",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", minScore, maxScore, value),
		}
	}
	return Score{value: value}, nil
}

// Value returns the numeric rating.
func (s Score) Value() int { return s.value }

// IsCritical reports whether the rating is low enough to alert an admin.
func (s Score) IsCritical() bool { return s.value <= criticalThreshold }
