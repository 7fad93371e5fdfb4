// Package retry provides the transient-fault recovery policy that wraps
// command execution: a bounded retry loop with pluggable error
// classification and backoff.
//
// # Example Usage
//
//	classifier := retry.NewPostgreSQLErrorClassifier()
//	strategy, err := retry.NewRecoveryBackoff(5, time.Second)
//	if err != nil { ... }
//	executor := retry.NewExecutor(classifier, strategy)
//
//	err = executor.Execute(ctx, func(ctx context.Context) error {
//	    return runCommand(ctx)
//	})
//
// # Error Classification
//
// The dbexec.ErrorClassifier interface determines which errors are
// transient (retryable) versus fatal (non-retryable). The default
// NeverTransient classifier retries nothing; a concrete classifier must
// positively assert that a fault class is safe to retry. Classifiers are
// provided for PostgreSQL (pgx), MySQL (go-sql-driver) and SQLite.
//
// # Backoff Strategies
//
// RecoveryBackoff implements the reference policy: a fixed base wait plus
// 2^attempt seconds, capped at 32 seconds of added delay. ExponentialBackoff
// is an opt-in alternative with multiplier and jitter; its timing deviates
// from the reference policy and is never selected by default.
//
// # Semantics
//
// The executor invokes the operation at most MaxAttempts times in strict
// sequence. The error returned after exhaustion or a fatal classification
// is the original error from the failing attempt, never wrapped: callers
// that match on driver error types see the same error on the first and the
// last attempt.
//
// # Thread Safety
//
// Executor instances are safe for concurrent use; every Execute call runs
// its own independent retry loop. Use WithOnRetry() and
// WithRecoveryDisabled() to derive independent configurations.
package retry
