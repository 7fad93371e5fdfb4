package retry

import (
	"context"
	"time"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// Executor orchestrates retry attempts with backoff and error classification.
//
// Thread Safety:
// The Executor itself is safe for concurrent use when calling Execute().
// WithOnRetry() and WithRecoveryDisabled() return NEW instances with the
// option applied, so each goroutine can hold its own configuration without
// shared state. The original Executor remains unchanged.
type Executor struct {
	classifier dbexec.ErrorClassifier
	strategy   dbexec.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
	disabled   bool
}

// NewExecutor creates a new retry executor with the given configuration.
// Panics if classifier or strategy is nil.
func NewExecutor(
	classifier dbexec.ErrorClassifier,
	strategy dbexec.BackoffStrategy,
) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{
		classifier: classifier,
		strategy:   strategy,
	}
}

// WithOnRetry returns a new Executor with the specified retry callback.
// The callback fires once per transient failure that will be retried,
// before the backoff wait, with the one-based attempt number that failed.
//
// This method does NOT modify the receiver; it returns a new instance.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// WithRecoveryDisabled returns a new Executor whose Execute runs the
// operation exactly once: any error propagates immediately with no
// classification and no waiting.
func (e *Executor) WithRecoveryDisabled() *Executor {
	clone := *e
	clone.disabled = true
	return &clone
}

// Execute runs the operation under the retry policy.
//
// The operation is invoked at most strategy.MaxAttempts() times. After a
// failure the error is classified; fatal errors and exhausted attempts
// return the original error unchanged. Context cancellation is honored
// before every attempt and during the backoff wait, returning ctx.Err().
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	maxAttempts := e.strategy.MaxAttempts()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr := operation(ctx)
		if lastErr == nil {
			return nil
		}

		if e.disabled {
			return lastErr
		}
		if attempt >= maxAttempts {
			return lastErr // Exhausted; propagate the original error
		}
		if !e.classifier.IsTransient(lastErr) {
			return lastErr // Fatal; no retry
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
