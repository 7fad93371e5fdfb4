// Package cli wires the dbexec commands: shared runtime construction from
// config and flags, cobra command definitions and output formatting.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dbexec",
	Short: "Run SQL commands with transient fault recovery",
	Long: `dbexec executes SQL statements and stored procedures against
PostgreSQL, MySQL or SQLite, retrying transient failures with exponential
backoff. Every attempt runs on a fresh connection and rebinds parameters.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed
  12 - SQL execution failed
  13 - Typed scalar conversion failed
  14 - Cancelled`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose output")
	pf.Bool("json-log", false, "Emit structured JSON logs instead of console output")
	pf.StringP("source", "s", ".", "Directory containing dbexec.yaml")
	pf.String("driver", "", "Database driver: postgres, mysql or sqlite")
	pf.String("dsn", "", "Connection string (overrides dbexec.yaml)")
	pf.Duration("timeout", 0, "Per-command timeout (0 uses the configured default)")
	pf.Int("retry-attempts", 0, "Total attempts per command, first try included")
	pf.Duration("recovery-wait", 0, "Fixed wait added to every retry delay")
	pf.Bool("no-retry", false, "Disable transient fault recovery")
	pf.Bool("jitter", false, "Randomize retry delays")
	pf.StringArray("param", nil, "Command parameter as name=value (repeatable)")
	pf.StringSlice("params-file", nil, "File with parameters in .env format (repeatable)")
}
