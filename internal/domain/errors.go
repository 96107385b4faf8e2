package domain

import "fmt"

// ValidationError reports caller-supplied data violating a domain invariant.
// Always recoverable by the caller; never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError reports a failed save or query against durable storage.
// Fatal to the operation that triggered it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationError reports a failed alert publish or admin delivery.
// Absorbed on the producer side, propagated on the consumer side.
type NotificationError struct {
	Op  string
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification: %s: %v", e.Op, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
