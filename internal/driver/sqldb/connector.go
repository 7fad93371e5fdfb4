package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// Connector creates database/sql-backed connections for one dialect and
// connection string.
type Connector struct {
	dialect Dialect
	dsn     string
}

// NewConnector creates a Connector for the given dialect and connection
// string.
func NewConnector(dialect Dialect, dsn string) *Connector {
	return &Connector{dialect: dialect, dsn: dsn}
}

// Connect returns a new closed connection bound to the connector's DSN.
func (c *Connector) Connect(ctx context.Context) (dbexec.Connection, error) {
	return &Conn{dialect: c.dialect, dsn: c.dsn}, nil
}

// IdentityDescriptor returns the dialect's identity query.
func (c *Connector) IdentityDescriptor() dbexec.CommandDescriptor {
	return dbexec.NewCommand(c.dialect.IdentityQuery)
}

// Conn is one pinned database/sql connection implementing
// dbexec.Connection. Pinning matters: identity queries and temporary state
// are only meaningful on the connection that ran the preceding statement.
// Not safe for concurrent use.
type Conn struct {
	dialect Dialect
	dsn     string

	db   *sql.DB
	conn *sql.Conn
}

// Open establishes the connection. Open on an open connection is a no-op.
func (c *Conn) Open(ctx context.Context) error {
	if c.State() == dbexec.ConnOpen {
		return nil
	}

	db, err := sql.Open(c.dialect.DriverName, c.dsn)
	if err != nil {
		return err
	}
	// One pinned connection per attempt; pooling lives beneath the driver.
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return err
	}

	c.db = db
	c.conn = conn
	return nil
}

// Close releases the pinned connection. Close on a closed connection is a
// no-op.
func (c *Conn) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	if dbErr := c.db.Close(); err == nil {
		err = dbErr
	}
	c.conn = nil
	c.db = nil
	return err
}

// State reports whether the connection is open.
func (c *Conn) State() dbexec.ConnState {
	if c.conn == nil {
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
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txAdapter{tx: tx}, nil
}

// txAdapter adapts *sql.Tx to the dbexec.Tx primitives.
type txAdapter struct {
	tx *sql.Tx
}

func (t *txAdapter) Commit(context.Context) error   { return t.tx.Commit() }
func (t *txAdapter) Rollback(context.Context) error { return t.tx.Rollback() }

// Compile-time interface checks
var (
	_ dbexec.Connector       = (*Connector)(nil)
	_ dbexec.IdentityQuerier = (*Connector)(nil)
	_ dbexec.Connection      = (*Conn)(nil)
)
