package domain

import (
	"errors"
	"testing"
)

func TestNewScoreRange(t *testing.T) {
	t.Parallel()

	for value := -2; value <= 12; value++ {
		score, err := NewScore(value)
		valid := value >= 0 && value <= 10

		if valid && err != nil {
			t.Fatalf("NewScore(%d) returned error: %v", value, err)
		}
		if !valid {
			if err == nil {
				t.Fatalf("NewScore(%d) expected error, got none", value)
			}
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("NewScore(%d) expected ValidationError, got %T", value, err)
			}
			continue
		}

		if score.Value() != value {
			t.Fatalf("Value() = %d, want %d", score.Value(), value)
		}
	}
}

func TestScoreIsCritical(t *testing.T) {
	t.Parallel()

	for value := 0; value <= 10; value++ {
		score, err := NewScore(value)
		if err != nil {
			t.Fatalf("NewScore(%d): %v", value, err)
		}
		if got, want := score.IsCritical(), value <= 3; got != want {
			t.Fatalf("IsCritical() for %d = %v, want %v", value, got, want)
		}
	}
}
