package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Execute a statement and print the result rows",
	Long: `Executes a statement and prints every row of the first result set,
one row per line with tab-separated columns.

The whole read is one recoverable operation: a transient failure while
fetching rows discards the partial result and reruns the statement on a
fresh connection.

Examples:
  dbexec query "SELECT name, quota FROM tenants ORDER BY name"
  dbexec query --param min=100 "SELECT id FROM orders WHERE total >= @min"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().Bool("procedure", false, "Treat the argument as a stored procedure name")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
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

	var lines []string
	err = rt.executor.Execute(cmd.Context(), func(ctx context.Context) error {
		fetched, err := fetchAll(ctx, rt, desc, set)
		if err != nil {
			return err
		}
		lines = fetched
		return nil
	})
	if err != nil {
		rt.logger.Verbose("statement failed: %s", previewSQL(args[0]))
		return fmt.Errorf("%w: %w", dbexec.ErrExecutionFailed, err)
	}

	out := cmd.OutOrStdout()
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}

// fetchAll drains the cursor so the result is complete before anything is
// printed. Rows own the connection; Close releases it.
func fetchAll(ctx context.Context, rt *commandRuntime, desc dbexec.CommandDescriptor, set *dbexec.ParameterSet) ([]string, error) {
	rows, err := rt.runner.Query(ctx, desc, set)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		fields := make([]string, len(values))
		for i, v := range values {
			fields[i] = formatScalar(v)
		}
		lines = append(lines, strings.Join(fields, "\t"))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return lines, nil
}
