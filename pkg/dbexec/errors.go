package dbexec

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := runner.NonQuery(ctx, desc, params)
//	if errors.Is(err, dbexec.ErrNoConnection) {
//	    // Handle missing/unopenable connection
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoConnection indicates no connection is associated with a command,
	// or the connection could not be opened.
	ErrNoConnection = errors.New("connection unavailable")

	// ErrConversion indicates a typed-scalar result could not be coerced to
	// the requested type. Data-shape problems do not resolve by waiting, so
	// classifiers must never treat this as transient.
	ErrConversion = errors.New("scalar conversion failed")

	// ErrDuplicateParameter indicates a parameter name was added twice to
	// one ParameterSet.
	ErrDuplicateParameter = errors.New("duplicate parameter")

	// ErrUnknownDriver indicates the requested driver name is not
	// registered, or the connector lacks a required capability.
	ErrUnknownDriver = errors.New("unknown driver")

	// ErrExecutionFailed indicates SQL execution failed.
	ErrExecutionFailed = errors.New("execution failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrDuplicateParameter):
		return ExitConfigError
	case errors.Is(err, ErrUnknownDriver):
		return ExitConfigError
	case errors.Is(err, ErrNoConnection):
		return ExitConnectionError
	case errors.Is(err, ErrConversion):
		return ExitConversionError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ExitCancelled
	case errors.Is(err, ErrExecutionFailed):
		return ExitExecutionFailed
	}

	// Check for common connection error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	if isUsageError(errStr) {
		return ExitUsageError
	}

	return ExitGeneralError
}

// isUsageError detects cobra/pflag argument parsing failures, which carry
// no sentinel to match on.
func isUsageError(msg string) bool {
	patterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"unknown command",
		"invalid argument",
		"required flag",
		"accepts ",
	}
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
