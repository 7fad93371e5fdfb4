package dbexec

import "time"

// ErrorClassifier decides whether a failed attempt may be retried.
//
// The safe default classifies nothing as transient: retrying a
// non-idempotent mutation is worse than failing it, so a concrete
// classifier must positively assert both that the fault is transient and
// that the operation is acknowledged as safe to repeat.
type ErrorClassifier interface {
	// IsTransient returns true if the error is temporary and the operation
	// should be retried.
	IsTransient(err error) bool
}

// ErrorClassifierFunc adapts a plain predicate to the ErrorClassifier
// interface.
type ErrorClassifierFunc func(err error) bool

// IsTransient calls the underlying predicate.
func (f ErrorClassifierFunc) IsTransient(err error) bool { return f(err) }

// BackoffStrategy calculates the delay before the next retry attempt.
type BackoffStrategy interface {
	// NextDelay returns the duration to wait after the given attempt fails.
	// attempt is one-indexed (1 = the first invocation).
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns the total number of invocations allowed for one
	// logical operation. Always at least 1.
	MaxAttempts() int
}
