package retry

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// maxRecoveryShift caps the exponential component of RecoveryBackoff at
// 2^5 = 32 seconds of added delay.
const maxRecoveryShift = 5

// RecoveryBackoff implements the reference recovery policy: the delay after
// attempt k is waitTime + min(2^k, 2^5) seconds. The exponential component
// grows from the first attempt and carries no jitter; many callers failing
// together will retry together. ExponentialBackoff with jitter is the
// documented alternative where that matters.
type RecoveryBackoff struct {
	attempts int
	waitTime time.Duration
}

// NewRecoveryBackoff creates the reference backoff strategy.
// attempts is the total number of invocations allowed (at least 1);
// waitTime is the base wait added before every retry (positive).
func NewRecoveryBackoff(attempts int, waitTime time.Duration) (*RecoveryBackoff, error) {
	if attempts < 1 {
		return nil, fmt.Errorf("retry attempts must be at least 1, got %d: %w", attempts, dbexec.ErrInvalidConfig)
	}
	if waitTime <= 0 {
		return nil, fmt.Errorf("recovery wait time must be positive, got %v: %w", waitTime, dbexec.ErrInvalidConfig)
	}
	return &RecoveryBackoff{attempts: attempts, waitTime: waitTime}, nil
}

// NewDefaultRecoveryBackoff creates the reference strategy with the library
// defaults (5 attempts, 1s base wait).
func NewDefaultRecoveryBackoff() *RecoveryBackoff {
	b, err := NewRecoveryBackoff(dbexec.DefaultRetryAttempts, dbexec.DefaultRecoveryWaitTime)
	if err != nil {
		panic(err) // Defaults are valid by construction
	}
	return b
}

// NextDelay returns waitTime + min(2^attempt, 32) seconds.
// attempt is the one-based number of the invocation that just failed.
func (b *RecoveryBackoff) NextDelay(attempt int) time.Duration {
	shift := attempt
	if shift > maxRecoveryShift {
		shift = maxRecoveryShift
	}
	if shift < 0 {
		shift = 0
	}
	return b.waitTime + time.Duration(1<<uint(shift))*time.Second
}

// MaxAttempts returns the total number of invocations allowed.
func (b *RecoveryBackoff) MaxAttempts() int {
	return b.attempts
}

// WaitTime returns the base wait for tests and debugging.
func (b *RecoveryBackoff) WaitTime() time.Duration {
	return b.waitTime
}

// ExponentialBackoff implements exponential backoff with jitter.
//
// Deviation: unlike RecoveryBackoff this strategy multiplies an initial
// delay and randomizes it, so its timing does not match the reference
// recovery policy. It is an explicit opt-in for deployments where many
// callers share one database and herd effects matter.
type ExponentialBackoff struct {
	// initialDelay is the delay for the first retry attempt
	initialDelay time.Duration

	// maxDelay is the maximum delay between attempts
	maxDelay time.Duration

	// multiplier is the factor by which delay increases (typically 2.0)
	multiplier float64

	// maxAttempts is the total number of invocations allowed
	maxAttempts int

	// jitter adds randomness to prevent thundering herd (0.0-1.0, typically 0.1)
	// Jitter of 0.1 means +/- 10% randomness
	jitter float64

	// jitterFunc provides random values [0, 1) for jitter calculation
	jitterFunc func() float64
}

// BackoffOption is a functional option for configuring ExponentialBackoff.
type BackoffOption func(*ExponentialBackoff)

// WithInitialDelay sets the initial delay for the first retry attempt.
func WithInitialDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) {
		b.initialDelay = d
	}
}

// WithMaxDelay sets the maximum delay between retry attempts.
func WithMaxDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) {
		b.maxDelay = d
	}
}

// WithMultiplier sets the factor by which delay increases between attempts.
func WithMultiplier(m float64) BackoffOption {
	return func(b *ExponentialBackoff) {
		b.multiplier = m
	}
}

// WithJitter sets the jitter factor (0.0-1.0) to add randomness to delays.
func WithJitter(j float64) BackoffOption {
	return func(b *ExponentialBackoff) {
		b.jitter = j
	}
}

// WithJitterFunc sets a custom function for generating random jitter values.
func WithJitterFunc(f func() float64) BackoffOption {
	return func(b *ExponentialBackoff) {
		b.jitterFunc = f
	}
}

// NewExponentialBackoff creates a jittered exponential backoff strategy.
// maxAttempts is the total number of invocations allowed (at least 1).
//
// Example:
//
//	backoff, err := retry.NewExponentialBackoff(3,
//	    retry.WithInitialDelay(200 * time.Millisecond),
//	    retry.WithMaxDelay(1 * time.Minute),
//	    retry.WithJitter(0.2),
//	)
func NewExponentialBackoff(maxAttempts int, opts ...BackoffOption) (*ExponentialBackoff, error) {
	if maxAttempts < 1 {
		return nil, fmt.Errorf("retry attempts must be at least 1, got %d: %w", maxAttempts, dbexec.ErrInvalidConfig)
	}

	b := &ExponentialBackoff{
		initialDelay: 100 * time.Millisecond,
		maxDelay:     30 * time.Second,
		multiplier:   2.0,
		maxAttempts:  maxAttempts,
		jitter:       0.1,
		jitterFunc:   nil, // Will use default in NextDelay
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.initialDelay <= 0 {
		return nil, fmt.Errorf("initial delay must be positive, got %v: %w", b.initialDelay, dbexec.ErrInvalidConfig)
	}
	return b, nil
}

// NextDelay calculates the delay for the given attempt using exponential backoff.
// attempt is the one-based number of the invocation that just failed.
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	exponent := float64(attempt - 1)
	delayMs := float64(b.initialDelay.Milliseconds()) * math.Pow(b.multiplier, exponent)

	if delayMs > float64(b.maxDelay.Milliseconds()) {
		delayMs = float64(b.maxDelay.Milliseconds())
	}

	if b.jitter > 0 {
		jitterFunc := b.jitterFunc
		if jitterFunc == nil {
			// Default: real randomness for production use.
			// Tests should explicitly set jitterFunc to a deterministic function.
			jitterFunc = rand.Float64
		}

		// Apply jitter: delay * (1 +/- jitter * random)
		randomOffset := (jitterFunc() - 0.5) * 2.0 // Map [0,1) to [-1,1)
		jitterFactor := 1.0 + (b.jitter * randomOffset)
		delayMs *= jitterFactor
	}

	return time.Duration(delayMs) * time.Millisecond
}

// MaxAttempts returns the total number of invocations allowed.
func (b *ExponentialBackoff) MaxAttempts() int {
	return b.maxAttempts
}

// InitialDelay returns the initial delay for tests and debugging.
func (b *ExponentialBackoff) InitialDelay() time.Duration {
	return b.initialDelay
}

// MaxDelay returns the maximum delay for tests and debugging.
func (b *ExponentialBackoff) MaxDelay() time.Duration {
	return b.maxDelay
}

// Jitter returns the jitter factor for tests and debugging.
func (b *ExponentialBackoff) Jitter() float64 {
	return b.jitter
}

// Compile-time interface checks
var (
	_ dbexec.BackoffStrategy = (*RecoveryBackoff)(nil)
	_ dbexec.BackoffStrategy = (*ExponentialBackoff)(nil)
)
