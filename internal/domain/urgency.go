package domain

import (
	"fmt"
	"strings"
)

// Urgency tags how fast a piece of feedback should be looked at.
type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

// ParseUrgency normalizes free-form input into one of the known levels.
// Blank or absent input defaults to LOW; anything else unrecognized fails.
func ParseUrgency(raw string) (Urgency, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "":
		return UrgencyLow, nil
	case string(UrgencyLow):
		return UrgencyLow, nil
	case string(UrgencyMedium):
		return UrgencyMedium, nil
	case string(UrgencyHigh):
		return UrgencyHigh, nil
	default:
		return "", &ValidationError{
			Field:  "urgency",
			Reason: fmt.Sprintf("must be one of LOW, MEDIUM, HIGH, got %q", strings.TrimSpace(raw)),
		}
	}
}
