package dbexec

import (
	"fmt"
	"time"
)

// CommandKind distinguishes plain command text from stored procedure calls.
type CommandKind int

const (
	// CommandText executes the descriptor text as-is.
	CommandText CommandKind = iota

	// CommandStoredProcedure treats the descriptor text as a procedure name;
	// the driver binding renders the dialect's call syntax around it.
	CommandStoredProcedure
)

// String returns a human-readable name for the command kind.
func (k CommandKind) String() string {
	switch k {
	case CommandText:
		return "text"
	case CommandStoredProcedure:
		return "stored-procedure"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// CommandDescriptor is an immutable description of one unit of work to
// execute against a data source. Callers create one descriptor per logical
// operation; the same descriptor is reused across retry attempts of that
// operation.
type CommandDescriptor struct {
	// Text is the SQL text, or the procedure name for CommandStoredProcedure.
	Text string

	// Kind selects between plain text and stored procedure execution.
	Kind CommandKind

	// Timeout bounds a single execution attempt. Zero means no limit.
	// Drivers receive the value truncated to whole seconds.
	Timeout time.Duration
}

// NewCommand returns a text descriptor with no timeout.
func NewCommand(text string) CommandDescriptor {
	return CommandDescriptor{Text: text, Kind: CommandText}
}

// NewStoredProcedure returns a stored-procedure descriptor with no timeout.
func NewStoredProcedure(name string) CommandDescriptor {
	return CommandDescriptor{Text: name, Kind: CommandStoredProcedure}
}

// WithTimeout returns a copy of the descriptor with the given attempt timeout.
func (d CommandDescriptor) WithTimeout(timeout time.Duration) CommandDescriptor {
	d.Timeout = timeout
	return d
}

// TimeoutSeconds returns the timeout truncated to whole seconds, the unit
// drivers consume. Sub-second timeouts round down to zero (no limit).
func (d CommandDescriptor) TimeoutSeconds() int {
	return int(d.Timeout / time.Second)
}

// Validate checks that the descriptor describes executable work.
func (d CommandDescriptor) Validate() error {
	if d.Text == "" {
		return fmt.Errorf("command text is required: %w", ErrInvalidConfig)
	}
	if d.Timeout < 0 {
		return fmt.Errorf("command timeout cannot be negative: %w", ErrInvalidConfig)
	}
	return nil
}
