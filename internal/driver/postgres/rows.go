package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// rowsAdapter adapts pgx.Rows to dbexec.Rows. After a successful Query the
// adapter owns the connection and releases it on Close.
type rowsAdapter struct {
	rows   pgx.Rows
	conn   *Conn
	cancel context.CancelFunc

	current []any
	err     error
	closed  bool
}

// Next advances to the next row, returning false at the end of the set.
func (r *rowsAdapter) Next() bool {
	if r.closed || !r.rows.Next() {
		return false
	}
	values, err := r.rows.Values()
	if err != nil {
		r.err = err
		return false
	}
	r.current = values
	return true
}

// Value returns the value at the given zero-based column ordinal.
func (r *rowsAdapter) Value(i int) (any, error) {
	if r.current == nil {
		return nil, fmt.Errorf("no current row")
	}
	if i < 0 || i >= len(r.current) {
		return nil, fmt.Errorf("column ordinal %d out of range [0, %d)", i, len(r.current))
	}
	return r.current[i], nil
}

// Values returns all column values of the current row.
func (r *rowsAdapter) Values() ([]any, error) {
	if r.current == nil {
		return nil, fmt.Errorf("no current row")
	}
	return r.current, nil
}

// FieldCount returns the number of columns in the result set.
func (r *rowsAdapter) FieldCount() int {
	return len(r.rows.FieldDescriptions())
}

// Err returns the error, if any, that terminated iteration.
func (r *rowsAdapter) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

// Close releases the cursor and the connection it owns.
// Safe to call more than once.
func (r *rowsAdapter) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.rows.Close()
	r.cancel()
	return r.conn.Close()
}

var _ dbexec.Rows = (*rowsAdapter)(nil)
