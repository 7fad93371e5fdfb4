package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// Command is a pgx-backed command implementing dbexec.Command.
// Parameters bind as pgx named arguments, so command text references them
// as @name placeholders.
type Command struct {
	conn *Conn
	desc dbexec.CommandDescriptor

	args  pgx.NamedArgs
	order []string
}

// BindParameters copies the set onto the command's named-argument map.
func (c *Command) BindParameters(params *dbexec.ParameterSet) error {
	c.args = pgx.NamedArgs{}
	c.order = c.order[:0]
	return params.Each(func(p dbexec.Parameter) error {
		c.args[p.Name] = p.Value
		c.order = append(c.order, p.Name)
		return nil
	})
}

// ClearParameters empties the named-argument map. Safe to call repeatedly.
func (c *Command) ClearParameters() {
	c.args = nil
	c.order = nil
}

// sql renders the executable statement for the descriptor.
func (c *Command) sql() string {
	if c.desc.Kind != dbexec.CommandStoredProcedure {
		return c.desc.Text
	}
	if len(c.order) == 0 {
		return fmt.Sprintf("CALL %s()", c.desc.Text)
	}
	refs := make([]string, len(c.order))
	for i, name := range c.order {
		refs[i] = "@" + name
	}
	return fmt.Sprintf("CALL %s(%s)", c.desc.Text, strings.Join(refs, ", "))
}

// attemptContext applies the descriptor timeout, truncated to whole seconds.
func (c *Command) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	secs := c.desc.TimeoutSeconds()
	if secs <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, time.Duration(secs)*time.Second)
}

func (c *Command) queryArgs() []any {
	if len(c.args) == 0 {
		return nil
	}
	return []any{c.args}
}

// Exec runs the command and returns the number of affected rows.
func (c *Command) Exec(ctx context.Context) (int64, error) {
	ctx, cancel := c.attemptContext(ctx)
	defer cancel()

	tag, err := c.conn.conn.Exec(ctx, c.sql(), c.queryArgs()...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Scalar runs the command and returns the first column of the first row,
// or nil when the result set is empty.
func (c *Command) Scalar(ctx context.Context) (any, error) {
	ctx, cancel := c.attemptContext(ctx)
	defer cancel()

	rows, err := c.conn.conn.Query(ctx, c.sql(), c.queryArgs()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	values, err := rows.Values()
	if err != nil {
		return nil, err
	}
	rows.Close()
	if err := rows.Err(); err != nil {
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

	rows, err := c.conn.conn.Query(ctx, c.sql(), c.queryArgs()...)
	if err != nil {
		cancel()
		return nil, err
	}
	return &rowsAdapter{rows: rows, conn: c.conn, cancel: cancel}, nil
}

var _ dbexec.Command = (*Command)(nil)
