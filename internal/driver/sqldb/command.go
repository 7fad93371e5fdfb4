package sqldb

import (
	"context"
	"time"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// Command is a database/sql-backed command implementing dbexec.Command.
// Named @name references in the command text are rewritten to the
// dialect's positional placeholders at execution time.
type Command struct {
	conn   *Conn
	desc   dbexec.CommandDescriptor
	params *dbexec.ParameterSet
}

// BindParameters borrows the set for this command's execution.
func (c *Command) BindParameters(params *dbexec.ParameterSet) error {
	c.params = params
	return nil
}

// ClearParameters drops the borrowed set. Safe to call repeatedly.
func (c *Command) ClearParameters() {
	c.params = nil
}

// render produces the positional statement and its argument values.
func (c *Command) render() (string, []any, error) {
	text := c.desc.Text

	if c.desc.Kind == dbexec.CommandStoredProcedure {
		count := c.params.Len()
		placeholders := make([]string, count)
		args := make([]any, 0, count)
		i := 0
		_ = c.params.Each(func(p dbexec.Parameter) error {
			placeholders[i] = c.conn.dialect.Placeholder(i)
			args = append(args, p.Value)
			i++
			return nil
		})
		sql, err := c.conn.dialect.Call(text, placeholders)
		if err != nil {
			return "", nil, err
		}
		return sql, args, nil
	}

	rewritten, names := rewriteNamed(text, c.conn.dialect)
	args, err := orderedValues(names, c.params)
	if err != nil {
		return "", nil, err
	}
	return rewritten, args, nil
}

// attemptContext applies the descriptor timeout, truncated to whole seconds.
func (c *Command) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	secs := c.desc.TimeoutSeconds()
	if secs <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, time.Duration(secs)*time.Second)
}

// Exec runs the command and returns the number of affected rows.
func (c *Command) Exec(ctx context.Context) (int64, error) {
	ctx, cancel := c.attemptContext(ctx)
	defer cancel()

	sql, args, err := c.render()
	if err != nil {
		return 0, err
	}
	res, err := c.conn.conn.ExecContext(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Scalar runs the command and returns the first column of the first row,
// or nil when the result set is empty.
func (c *Command) Scalar(ctx context.Context) (any, error) {
	ctx, cancel := c.attemptContext(ctx)
	defer cancel()

	sql, args, err := c.render()
	if err != nil {
		return nil, err
	}
	rows, err := c.conn.conn.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	values, err := scanRow(rows)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values[0], nil
}

// Query runs the command and returns a cursor that owns the connection.
func (c *Command) Query(ctx context.Context) (dbexec.Rows, error) {
	ctx, cancel := c.attemptContext(ctx)

	sql, args, err := c.render()
	if err != nil {
		cancel()
		return nil, err
	}
	rows, err := c.conn.conn.QueryContext(ctx, sql, args...)
	if err != nil {
		cancel()
		return nil, err
	}
	return newRowsAdapter(rows, c.conn, cancel)
}

var _ dbexec.Command = (*Command)(nil)
