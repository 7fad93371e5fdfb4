package exec

import (
	"context"
	"fmt"

	"github.com/kvanta-io/dbexec/internal/logging"
	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// Runner executes command descriptors against a data source through a
// dbexec.Connector. Every operation obtains a fresh connection, so a Runner
// is safe for concurrent use as long as callers do not share ParameterSet
// instances across in-flight operations.
type Runner struct {
	connector dbexec.Connector
	hooks     Pipeline
	logger    dbexec.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for cleanup diagnostics.
func WithLogger(logger dbexec.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithHooks appends hooks invoked synchronously around every operation,
// in registration order.
func WithHooks(hooks ...Hook) Option {
	return func(r *Runner) {
		r.hooks = append(r.hooks, hooks...)
	}
}

// New creates a Runner for the given connector.
// Panics if connector is nil.
func New(connector dbexec.Connector, opts ...Option) *Runner {
	if connector == nil {
		panic("connector cannot be nil")
	}
	r := &Runner{
		connector: connector,
		logger:    logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NonQuery executes the descriptor and returns the number of affected rows.
// The connection is closed before return on every path.
func (r *Runner) NonQuery(ctx context.Context, desc dbexec.CommandDescriptor, params *dbexec.ParameterSet) (int64, error) {
	var affected int64
	err := r.run(ctx, "non-query", desc, params, func(ctx context.Context, cmd dbexec.Command) error {
		n, err := cmd.Exec(ctx)
		if err != nil {
			return err
		}
		affected = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// Scalar executes the descriptor and returns the first column of the first
// row of the first result set, or nil when the result set is empty. Extra
// columns and rows are ignored. The connection is closed before return.
func (r *Runner) Scalar(ctx context.Context, desc dbexec.CommandDescriptor, params *dbexec.ParameterSet) (any, error) {
	var value any
	err := r.run(ctx, "scalar", desc, params, func(ctx context.Context, cmd dbexec.Command) error {
		v, err := cmd.Scalar(ctx)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Query executes the descriptor and returns a forward-only cursor. On
// success the rows own the connection and release it on Close; the runner
// must not close it. On failure the runner closes the connection itself.
func (r *Runner) Query(ctx context.Context, desc dbexec.CommandDescriptor, params *dbexec.ParameterSet) (dbexec.Rows, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	info := newOpInfo("query", desc, params)
	if err := r.hooks.Before(ctx, info); err != nil {
		return nil, err
	}

	rows, err := r.query(ctx, desc, params)
	r.hooks.After(ctx, info, err)
	return rows, err
}

func (r *Runner) query(ctx context.Context, desc dbexec.CommandDescriptor, params *dbexec.ParameterSet) (rows dbexec.Rows, err error) {
	conn, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}

	// Ownership of conn transfers to the rows only on success.
	defer func() {
		if err != nil {
			r.closeQuietly(conn)
		}
	}()

	cmd, err := conn.Command(desc)
	if err != nil {
		return nil, err
	}
	defer cmd.ClearParameters()

	if err = cmd.BindParameters(params); err != nil {
		return nil, err
	}

	return cmd.Query(ctx)
}

// run is the shared non-reader execution path: connect, open, build the
// command, bind, execute, then clean up on every exit.
func (r *Runner) run(ctx context.Context, op string, desc dbexec.CommandDescriptor, params *dbexec.ParameterSet, execute func(context.Context, dbexec.Command) error) error {
	if err := desc.Validate(); err != nil {
		return err
	}

	info := newOpInfo(op, desc, params)
	if err := r.hooks.Before(ctx, info); err != nil {
		return err
	}

	err := r.runAttempt(ctx, desc, params, execute)
	r.hooks.After(ctx, info, err)
	return err
}

func (r *Runner) runAttempt(ctx context.Context, desc dbexec.CommandDescriptor, params *dbexec.ParameterSet, execute func(context.Context, dbexec.Command) error) (err error) {
	conn, err := r.connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// Cleanup failures never mask the in-flight error.
		r.closeQuietly(conn)
	}()

	cmd, err := conn.Command(desc)
	if err != nil {
		return err
	}
	defer cmd.ClearParameters()

	if err = cmd.BindParameters(params); err != nil {
		return err
	}

	return execute(ctx, cmd)
}

// connect obtains a fresh connection and opens it. Errors from the driver
// propagate unwrapped so the retry classifier sees the original error.
func (r *Runner) connect(ctx context.Context) (dbexec.Connection, error) {
	conn, err := r.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, fmt.Errorf("connector returned no connection: %w", dbexec.ErrNoConnection)
	}
	if conn.State() != dbexec.ConnOpen {
		if err := conn.Open(ctx); err != nil {
			r.closeQuietly(conn)
			return nil, err
		}
	}
	return conn, nil
}

func (r *Runner) closeQuietly(conn dbexec.Connection) {
	if conn == nil || conn.State() == dbexec.ConnClosed {
		return
	}
	if err := conn.Close(); err != nil {
		r.logger.Verbose("connection close failed: %v", err)
	}
}
