package executor

import (
	"context"
	"errors"
	"fmt"
)

// RetryableError marks a transient failure (network, timeout, rate limit)
// eligible for backoff retry within the stage's retry budget.
type RetryableError struct {
	Cause error
}

func (e *RetryableError) Error() string { return fmt.Sprintf("retryable: %v", e.Cause) }

func (e *RetryableError) Unwrap() error { return e.Cause }

// NewRetryableError wraps err as retryable.
func NewRetryableError(err error) *RetryableError {
	return &RetryableError{Cause: err}
}

// Retryablef formats a new retryable error.
func Retryablef(format string, args ...interface{}) *RetryableError {
	return &RetryableError{Cause: fmt.Errorf(format, args...)}
}

// FatalError marks output that is malformed or unusable after validation.
// Fatal failures are never retried.
type FatalError struct {
	Cause error
}

func (e *FatalError) Error() string { return fmt.Sprintf("fatal: %v", e.Cause) }

func (e *FatalError) Unwrap() error { return e.Cause }

// NewFatalError wraps err as fatal.
func NewFatalError(err error) *FatalError {
	return &FatalError{Cause: err}
}

// Fatalf formats a new fatal error.
func Fatalf(format string, args ...interface{}) *FatalError {
	return &FatalError{Cause: fmt.Errorf(format, args...)}
}

// IsRetryable reports whether err should be retried. Stage invocation
// timeouts count as retryable per the coordinator's failure semantics.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsFatal reports whether err is explicitly non-retryable.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}
