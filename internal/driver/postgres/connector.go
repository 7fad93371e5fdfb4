// Package postgres binds the dbexec driver interfaces to PostgreSQL via
// pgx. Each Connect call yields one dedicated pgx connection: the retry
// layer depends on attempts never sharing a connection, so no pooling
// happens here.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// closeTimeout bounds the connection teardown handshake.
const closeTimeout = 5 * time.Second

// Connector creates pgx-backed connections from a connection string.
// The connection string is opaque to this package; anything
// pgx.ParseConfig accepts works.
type Connector struct {
	dsn string
}

// NewConnector creates a Connector for the given connection string.
func NewConnector(dsn string) *Connector {
	return &Connector{dsn: dsn}
}

// Connect returns a new closed connection bound to the connector's DSN.
func (c *Connector) Connect(ctx context.Context) (dbexec.Connection, error) {
	return &Conn{dsn: c.dsn}, nil
}

// IdentityDescriptor returns the PostgreSQL identity query. lastval()
// reports the most recent sequence value on the current session, which is
// only meaningful on the same connection that performed the insert.
func (c *Connector) IdentityDescriptor() dbexec.CommandDescriptor {
	return dbexec.NewCommand("SELECT lastval()")
}

// Conn is one pgx connection implementing dbexec.Connection.
// Not safe for concurrent use.
type Conn struct {
	dsn  string
	conn *pgx.Conn
}

// Open establishes the pgx connection. Open on an open connection is a no-op.
func (c *Conn) Open(ctx context.Context) error {
	if c.State() == dbexec.ConnOpen {
		return nil
	}
	conn, err := pgx.Connect(ctx, c.dsn)
	if err != nil {
		return err
	}
	c.conn = conn
	return nil
}

// Close releases the pgx connection. Close on a closed connection is a no-op.
func (c *Conn) Close() error {
	if c.conn == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	err := c.conn.Close(ctx)
	c.conn = nil
	return err
}

// State reports whether the connection is open.
func (c *Conn) State() dbexec.ConnState {
	if c.conn == nil || c.conn.IsClosed() {
		return dbexec.ConnClosed
	}
	return dbexec.ConnOpen
}

// Command builds a command bound to this connection.
func (c *Conn) Command(desc dbexec.CommandDescriptor) (dbexec.Command, error) {
	if c.State() != dbexec.ConnOpen {
		return nil, fmt.Errorf("command requires an open connection: %w", dbexec.ErrNoConnection)
	}
	return &Command{conn: c, desc: desc}, nil
}

// Begin starts a transaction on this connection.
func (c *Conn) Begin(ctx context.Context) (dbexec.Tx, error) {
	if c.State() != dbexec.ConnOpen {
		return nil, fmt.Errorf("transaction requires an open connection: %w", dbexec.ErrNoConnection)
	}
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &txAdapter{tx: tx}, nil
}

// txAdapter adapts pgx.Tx to the dbexec.Tx primitives.
type txAdapter struct {
	tx pgx.Tx
}

func (t *txAdapter) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *txAdapter) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// Compile-time interface checks
var (
	_ dbexec.Connector       = (*Connector)(nil)
	_ dbexec.IdentityQuerier = (*Connector)(nil)
	_ dbexec.Connection      = (*Conn)(nil)
)
