// Package dbexec defines the public contracts of the dbexec library: the
// command descriptor and parameter model, the driver capability interfaces,
// the retry interfaces, and the sentinel errors shared across the module.
//
// The package contains no driver code and no execution logic. Concrete
// implementations live under internal/ and are composed by the CLI or by
// embedding applications:
//
//   - internal/exec: the command runner (non-query, scalar, reader paths)
//   - internal/retry: the transient-fault retry executor and backoff strategies
//   - internal/driver: pgx and database/sql bindings of the driver interfaces
//
// # Design
//
// The runner borrows a ParameterSet for the duration of one attempt and
// guarantees the driver-level parameter collection is cleared after every
// attempt, success or failure. Connections are never shared across retry
// attempts; each attempt obtains a fresh Connection from its Connector.
// On the reader path the returned Rows owns the connection and closes it
// when the rows are closed.
package dbexec
