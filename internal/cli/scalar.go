package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/kvanta-io/dbexec/internal/exec"
	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

var scalarCmd = &cobra.Command{
	Use:   "scalar <sql>",
	Short: "Execute a statement and print the first value",
	Long: `Executes a statement and prints the first column of the first row.
An empty result set prints nothing and succeeds.

With --as the value is converted to the named type before printing; a value
that cannot be converted is an error. Supported types: string, int32, int64,
float64, bool, time, decimal.

Examples:
  dbexec scalar "SELECT count(*) FROM accounts"
  dbexec scalar --as int64 --param tenant=acme "SELECT quota FROM tenants WHERE name = @tenant"`,
	Args: cobra.ExactArgs(1),
	RunE: runScalar,
}

func init() {
	scalarCmd.Flags().Bool("procedure", false, "Treat the argument as a stored procedure name")
	scalarCmd.Flags().String("as", "", "Convert the value to this type before printing")
	rootCmd.AddCommand(scalarCmd)
}

func runScalar(cmd *cobra.Command, args []string) error {
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
	as, _ := cmd.Flags().GetString("as")

	var value any
	err = rt.executor.Execute(cmd.Context(), func(ctx context.Context) error {
		v, err := scalarValue(ctx, rt, desc, set, as)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if err != nil {
		rt.logger.Verbose("statement failed: %s", previewSQL(args[0]))
		return fmt.Errorf("%w: %w", dbexec.ErrExecutionFailed, err)
	}

	if value == nil {
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatScalar(value))
	return nil
}

// scalarValue runs the scalar, converted when a target type is requested.
func scalarValue(ctx context.Context, rt *commandRuntime, desc dbexec.CommandDescriptor, set *dbexec.ParameterSet, as string) (any, error) {
	conv := exec.DefaultConverter()
	switch as {
	case "":
		return rt.runner.Scalar(ctx, desc, set)
	case "string":
		return exec.ScalarAs[string](ctx, rt.runner, desc, set, conv)
	case "int32":
		return exec.ScalarAs[int32](ctx, rt.runner, desc, set, conv)
	case "int64":
		return exec.ScalarAs[int64](ctx, rt.runner, desc, set, conv)
	case "float64":
		return exec.ScalarAs[float64](ctx, rt.runner, desc, set, conv)
	case "bool":
		return exec.ScalarAs[bool](ctx, rt.runner, desc, set, conv)
	case "time":
		return exec.ScalarAs[time.Time](ctx, rt.runner, desc, set, conv)
	case "decimal":
		return exec.ScalarAs[decimal.Decimal](ctx, rt.runner, desc, set, conv)
	default:
		return nil, fmt.Errorf("unknown scalar type %q: %w", as, dbexec.ErrInvalidConfig)
	}
}

func formatScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
