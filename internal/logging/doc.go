// Package logging provides concrete implementations of the dbexec.Logger
// interface: a console logger for interactive use, a null logger for tests
// and embedding, and a zap-backed logger for structured JSON output.
package logging
