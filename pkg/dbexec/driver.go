package dbexec

import (
	"context"
)

// ConnState reports whether a connection is usable.
type ConnState int

const (
	// ConnClosed means the connection is not open; Open must be called
	// before commands can execute.
	ConnClosed ConnState = iota

	// ConnOpen means the connection is ready to execute commands.
	ConnOpen
)

// String returns a human-readable name for the connection state.
func (s ConnState) String() string {
	if s == ConnOpen {
		return "open"
	}
	return "closed"
}

// Connector produces driver connections. Every call returns a fresh,
// unshared connection: the retry layer calls Connect once per attempt so a
// faulted connection from a prior attempt is never reused.
//
// The connection string a Connector was built from is opaque to this
// library; pooling, if any, lives beneath the driver.
type Connector interface {
	// Connect returns a new closed connection. Open must be called before use.
	Connect(ctx context.Context) (Connection, error)
}

// Connection is one driver-level connection, associated 1:1 with a command
// for the duration of an execution attempt.
//
// Implementations are not safe for concurrent use; each attempt takes
// exclusive access to its connection and command.
type Connection interface {
	// Open establishes the connection. Calling Open on an open connection
	// is a no-op.
	Open(ctx context.Context) error

	// Close releases the connection. Close on a closed connection is a no-op.
	Close() error

	// State reports whether the connection is open.
	State() ConnState

	// Command builds a driver-level command from the descriptor. Fails with
	// ErrNoConnection if the connection cannot host a command.
	Command(desc CommandDescriptor) (Command, error)

	// Begin starts a transaction on this connection. Coordination beyond
	// commit/rollback is out of scope for this layer.
	Begin(ctx context.Context) (Tx, error)
}

// Command is a driver-level command bound to one connection.
type Command interface {
	// BindParameters copies the set onto the driver-level parameter
	// collection. A nil set binds nothing.
	BindParameters(params *ParameterSet) error

	// ClearParameters empties the driver-level parameter collection. It is
	// called after every attempt, success or failure, and must be safe to
	// call repeatedly.
	ClearParameters()

	// Exec runs the command and returns the number of affected rows.
	Exec(ctx context.Context) (int64, error)

	// Scalar runs the command and returns the first column of the first
	// row, or nil when the result set is empty.
	Scalar(ctx context.Context) (any, error)

	// Query runs the command and returns a forward-only cursor. The caller
	// owns the connection from this point; closing the rows closes it.
	Query(ctx context.Context) (Rows, error)
}

// Rows is a forward-only, read-once cursor over a result set. After a
// successful Query the rows exclusively own the underlying connection and
// release it on Close.
type Rows interface {
	// Next advances to the next row, returning false at the end of the set.
	Next() bool

	// Value returns the value at the given zero-based column ordinal of the
	// current row.
	Value(i int) (any, error)

	// Values returns all column values of the current row.
	Values() ([]any, error)

	// FieldCount returns the number of columns in the result set.
	FieldCount() int

	// Err returns the error, if any, that terminated iteration.
	Err() error

	// Close releases the cursor and the connection it owns. Safe to call
	// more than once.
	Close() error
}

// Tx exposes the begin/commit primitives of the underlying driver.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// IdentityQuerier is an optional Connector capability supplying the
// dialect-specific query that retrieves the last inserted identity value
// on the current connection.
type IdentityQuerier interface {
	// IdentityDescriptor returns a descriptor whose scalar result is the
	// last inserted identity (e.g. SELECT lastval() on PostgreSQL).
	IdentityDescriptor() CommandDescriptor
}
