package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// scanRow reads the current row of a *sql.Rows into a []any, unwrapping
// raw byte buffers into stable copies (database/sql reuses the buffer on
// the next Scan).
func scanRow(rows *sql.Rows) ([]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = append([]byte(nil), b...)
		}
	}
	return values, nil
}

// rowsAdapter adapts *sql.Rows to dbexec.Rows. After a successful Query
// the adapter owns the connection and releases it on Close.
type rowsAdapter struct {
	rows   *sql.Rows
	conn   *Conn
	cancel context.CancelFunc

	fieldCount int
	current    []any
	err        error
	closed     bool
}

func newRowsAdapter(rows *sql.Rows, conn *Conn, cancel context.CancelFunc) (*rowsAdapter, error) {
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		cancel()
		return nil, err
	}
	return &rowsAdapter{rows: rows, conn: conn, cancel: cancel, fieldCount: len(cols)}, nil
}

// Next advances to the next row, returning false at the end of the set.
func (r *rowsAdapter) Next() bool {
	if r.closed || !r.rows.Next() {
		return false
	}
	values, err := scanRow(r.rows)
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
	return r.fieldCount
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
	err := r.rows.Close()
	r.cancel()
	if connErr := r.conn.Close(); err == nil {
		err = connErr
	}
	return err
}

var _ dbexec.Rows = (*rowsAdapter)(nil)
