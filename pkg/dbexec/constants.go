package dbexec

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Operation completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to database
	ExitExecutionFailed = 12 // SQL execution failed
	ExitConversionError = 13 // Typed scalar coercion failed
	ExitCancelled       = 14 // Operation cancelled or deadline exceeded
)

const (
	// DefaultRetryAttempts is the default total number of invocations for
	// one logical operation when recovery is enabled.
	DefaultRetryAttempts = 5

	// DefaultRecoveryWaitTime is the default base wait added to the
	// exponential component before each retry.
	DefaultRecoveryWaitTime = 1 * time.Second

	// DefaultCommandTimeout bounds a single execution attempt when the
	// descriptor does not specify its own timeout.
	DefaultCommandTimeout = 30 * time.Second

	// MaxErrorPreviewLength is the maximum number of characters shown
	// in error messages when previewing failed SQL text.
	// This prevents overwhelming the console with large statement errors.
	MaxErrorPreviewLength = 200
)
