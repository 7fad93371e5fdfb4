package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

func TestRecoveryBackoff_ReferenceFormula(t *testing.T) {
	// P5: delay after attempt k is waitTime + min(2^k, 32) seconds.
	b, err := NewRecoveryBackoff(10, 1*time.Second)
	if err != nil {
		t.Fatalf("NewRecoveryBackoff: %v", err)
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 1*time.Second + 2*time.Second},
		{2, 1*time.Second + 4*time.Second},
		{3, 1*time.Second + 8*time.Second},
		{4, 1*time.Second + 16*time.Second},
		{5, 1*time.Second + 32*time.Second},
		{6, 1*time.Second + 32*time.Second}, // capped at 2^5
		{9, 1*time.Second + 32*time.Second},
	}

	for _, tt := range tests {
		if got := b.NextDelay(tt.attempt); got != tt.want {
			t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestRecoveryBackoff_Monotonic(t *testing.T) {
	b, err := NewRecoveryBackoff(10, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("NewRecoveryBackoff: %v", err)
	}

	prev := time.Duration(0)
	for attempt := 1; attempt <= 8; attempt++ {
		d := b.NextDelay(attempt)
		if d < prev {
			t.Errorf("NextDelay(%d) = %v decreased from %v", attempt, d, prev)
		}
		prev = d
	}
}

func TestNewRecoveryBackoff_Validation(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		wait     time.Duration
	}{
		{"zero attempts", 0, time.Second},
		{"negative attempts", -1, time.Second},
		{"zero wait", 5, 0},
		{"negative wait", 5, -time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecoveryBackoff(tt.attempts, tt.wait)
			if !errors.Is(err, dbexec.ErrInvalidConfig) {
				t.Errorf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewDefaultRecoveryBackoff(t *testing.T) {
	b := NewDefaultRecoveryBackoff()
	if b.MaxAttempts() != dbexec.DefaultRetryAttempts {
		t.Errorf("MaxAttempts() = %d, want %d", b.MaxAttempts(), dbexec.DefaultRetryAttempts)
	}
	if b.WaitTime() != dbexec.DefaultRecoveryWaitTime {
		t.Errorf("WaitTime() = %v, want %v", b.WaitTime(), dbexec.DefaultRecoveryWaitTime)
	}
}

func TestExponentialBackoff_GrowthAndCap(t *testing.T) {
	b, err := NewExponentialBackoff(10,
		WithInitialDelay(100*time.Millisecond),
		WithMaxDelay(1*time.Second),
		WithJitter(0),
	)
	if err != nil {
		t.Fatalf("NewExponentialBackoff: %v", err)
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, 1 * time.Second}, // capped
		{8, 1 * time.Second},
	}

	for _, tt := range tests {
		if got := b.NextDelay(tt.attempt); got != tt.want {
			t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestExponentialBackoff_DeterministicJitter(t *testing.T) {
	// jitterFunc returning 0.5 maps to a zero offset: delay unchanged.
	b, err := NewExponentialBackoff(3,
		WithInitialDelay(100*time.Millisecond),
		WithJitter(0.5),
		WithJitterFunc(func() float64 { return 0.5 }),
	)
	if err != nil {
		t.Fatalf("NewExponentialBackoff: %v", err)
	}
	if got := b.NextDelay(1); got != 100*time.Millisecond {
		t.Errorf("NextDelay(1) with neutral jitter = %v, want 100ms", got)
	}

	// jitterFunc returning 1.0 maps to the maximum positive offset.
	b, err = NewExponentialBackoff(3,
		WithInitialDelay(100*time.Millisecond),
		WithJitter(0.1),
		WithJitterFunc(func() float64 { return 1.0 }),
	)
	if err != nil {
		t.Fatalf("NewExponentialBackoff: %v", err)
	}
	if got := b.NextDelay(1); got != 110*time.Millisecond {
		t.Errorf("NextDelay(1) with max jitter = %v, want 110ms", got)
	}
}

func TestNewExponentialBackoff_Validation(t *testing.T) {
	if _, err := NewExponentialBackoff(0); !errors.Is(err, dbexec.ErrInvalidConfig) {
		t.Errorf("zero attempts: got %v, want ErrInvalidConfig", err)
	}
	if _, err := NewExponentialBackoff(3, WithInitialDelay(-time.Second)); !errors.Is(err, dbexec.ErrInvalidConfig) {
		t.Errorf("negative initial delay: got %v, want ErrInvalidConfig", err)
	}
}
