package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

var execCmd = &cobra.Command{
	Use:   "exec <sql>",
	Short: "Execute a statement and report affected rows",
	Long: `Executes a statement that returns no result set, such as INSERT,
UPDATE, DELETE or DDL. With --procedure the argument is a stored procedure
name invoked with the bound parameters.

Examples:
  dbexec exec "DELETE FROM sessions WHERE expires_at < now()"
  dbexec exec --param tenant=acme "UPDATE accounts SET active = false WHERE tenant = @tenant"
  dbexec exec --procedure billing.close_period --param period=2026-08`,
	Args: cobra.ExactArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().Bool("procedure", false, "Treat the argument as a stored procedure name")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.cleanup()

	set, err := buildParameters(cmd, rt.cfg)
	if err != nil {
		return err
	}
	desc := rt.descriptorFor(cmd, args[0])

	var affected int64
	err = rt.executor.Execute(cmd.Context(), func(ctx context.Context) error {
		n, err := rt.runner.NonQuery(ctx, desc, set)
		if err != nil {
			return err
		}
		affected = n
		return nil
	})
	if err != nil {
		rt.logger.Verbose("statement failed: %s", previewSQL(args[0]))
		return fmt.Errorf("%w: %w", dbexec.ErrExecutionFailed, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) affected\n", affected)
	return nil
}
