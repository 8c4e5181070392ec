package executor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// RetryConfig bounds a single stage invocation: per-call timeout, retry
// budget and exponential backoff shape. The zero value disables both timeout
// and retries; DefaultRetryConfig matches the engine defaults.
type RetryConfig struct {
	// MaxRetries is the number of re-attempts after the first call.
	MaxRetries int `json:"maxRetries,omitempty" yaml:"maxRetries,omitempty"`
	// BaseDelay is the first backoff delay; attempt N waits BaseDelay * Multiplier^N.
	BaseDelay  time.Duration `json:"baseDelay,omitempty" yaml:"baseDelay,omitempty"`
	Multiplier float64       `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
	// MaxDelay caps the computed backoff delay. Zero means uncapped.
	MaxDelay time.Duration `json:"maxDelay,omitempty" yaml:"maxDelay,omitempty"`
	// Timeout applies to each individual attempt, not the whole stage.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DefaultRetryConfig returns the stage invocation defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
		Multiplier: 2,
		MaxDelay:   10 * time.Second,
		Timeout:    2 * time.Minute,
	}
}

// Delay returns the backoff delay before re-attempt number attempt (0-based).
func (c RetryConfig) Delay(attempt int) time.Duration {
	base := c.BaseDelay
	if base <= 0 {
		return 0
	}
	mult := c.Multiplier
	if mult <= 1 {
		mult = 2
	}
	delay := float64(base) * math.Pow(mult, float64(attempt))
	if c.MaxDelay > 0 && time.Duration(delay) > c.MaxDelay {
		return c.MaxDelay
	}
	return time.Duration(delay)
}

// sleepFunc waits for the backoff delay honouring cancellation. Override in
// tests for determinism.
var sleepFunc = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Invoke runs fn under the retry config: each attempt gets its own timeout,
// retryable failures (including attempt timeouts) are re-tried with
// exponential backoff, fatal failures and cancellation surface immediately.
// An exhausted retry budget converts the last error into a fatal outcome.
// The second return is the number of attempts made. On failure the value
// produced by the last attempt is passed through alongside the error so
// callers can salvage partial output.
func Invoke[T any](ctx context.Context, cfg RetryConfig, name string, fn func(ctx context.Context) (T, error)) (T, int, error) {
	var last T
	var lastErr error
	attempts := 0
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return last, attempts, err
		}
		attemptCtx := ctx
		cancel := context.CancelFunc(func() {})
		if cfg.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		}
		out, err := fn(attemptCtx)
		cancel()
		attempts++
		if err == nil {
			return out, attempts, nil
		}
		last, lastErr = out, err
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return last, attempts, err
		}
		if IsFatal(err) {
			return last, attempts, err
		}
		if !IsRetryable(err) {
			return last, attempts, NewFatalError(fmt.Errorf("%s: %w", name, err))
		}
		if attempt >= cfg.MaxRetries {
			break
		}
		if err := sleepFunc(ctx, cfg.Delay(attempt)); err != nil {
			return last, attempts, err
		}
	}
	return last, attempts, NewFatalError(fmt.Errorf("%s: retry budget exhausted after %d attempts: %w", name, cfg.MaxRetries+1, lastErr))
}
