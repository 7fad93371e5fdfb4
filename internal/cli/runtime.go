package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kvanta-io/dbexec/internal/config"
	"github.com/kvanta-io/dbexec/internal/driver/postgres"
	"github.com/kvanta-io/dbexec/internal/driver/sqldb"
	"github.com/kvanta-io/dbexec/internal/exec"
	"github.com/kvanta-io/dbexec/internal/logging"
	"github.com/kvanta-io/dbexec/internal/params"
	"github.com/kvanta-io/dbexec/internal/retry"
	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// commandRuntime bundles everything a command invocation needs: the resolved
// configuration, the runner bound to a connector, and the retry executor.
type commandRuntime struct {
	cfg      *config.ProjectConfig
	logger   dbexec.Logger
	runner   *exec.Runner
	executor *retry.Executor
	timeout  time.Duration

	cleanup func()
}

// buildRuntime resolves configuration (flags over dbexec.yaml over
// defaults) and assembles the execution stack for one command run.
func buildRuntime(cmd *cobra.Command) (*commandRuntime, error) {
	// Best-effort .env loading for DSN credentials.
	_ = godotenv.Load()

	flags := cmd.Flags()
	source, _ := flags.GetString("source")

	cfg, err := config.Load(source)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading %s: %w", config.ConfigFileName, err)
		}
		cfg = config.Default()
	}

	if driver, _ := flags.GetString("driver"); driver != "" {
		cfg.Driver = driver
	}
	if dsn, _ := flags.GetString("dsn"); dsn != "" {
		cfg.DSN = dsn
	}
	if flags.Changed("retry-attempts") {
		cfg.Retry.Attempts, _ = flags.GetInt("retry-attempts")
	}
	if flags.Changed("recovery-wait") {
		wait, _ := flags.GetDuration("recovery-wait")
		cfg.Retry.RecoveryWait = wait.String()
	}
	if noRetry, _ := flags.GetBool("no-retry"); noRetry {
		cfg.Retry.Enabled = false
	}
	if flags.Changed("jitter") {
		cfg.Retry.Jitter, _ = flags.GetBool("jitter")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required (flag --dsn or dbexec.yaml): %w", dbexec.ErrInvalidConfig)
	}

	timeout := cfg.CommandTimeout()
	if flags.Changed("timeout") {
		timeout, _ = flags.GetDuration("timeout")
	}

	verbose, _ := flags.GetBool("verbose")
	logger, cleanup, err := buildLogger(cmd, verbose)
	if err != nil {
		return nil, err
	}

	connector, classifier, err := buildConnector(cfg)
	if err != nil {
		cleanup()
		return nil, err
	}

	executor, err := buildExecutor(cfg, classifier, logger)
	if err != nil {
		cleanup()
		return nil, err
	}

	return &commandRuntime{
		cfg:      cfg,
		logger:   logger,
		runner:   exec.New(connector, exec.WithLogger(logger)),
		executor: executor,
		timeout:  timeout,
		cleanup:  cleanup,
	}, nil
}

func buildLogger(cmd *cobra.Command, verbose bool) (dbexec.Logger, func(), error) {
	if jsonLog, _ := cmd.Flags().GetBool("json-log"); jsonLog {
		logger, cleanup, err := logging.NewProductionZapLogger(verbose)
		if err != nil {
			return nil, nil, err
		}
		return logger, cleanup, nil
	}
	return logging.NewConsoleLogger(verbose), func() {}, nil
}

func buildConnector(cfg *config.ProjectConfig) (dbexec.Connector, dbexec.ErrorClassifier, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.NewConnector(cfg.DSN), retry.NewPostgreSQLErrorClassifier(), nil
	case "mysql":
		return sqldb.NewConnector(sqldb.MySQL, cfg.DSN), retry.NewMySQLErrorClassifier(), nil
	case "sqlite", "sqlite3":
		return sqldb.NewConnector(sqldb.SQLite, cfg.DSN), retry.NewSQLiteErrorClassifier(), nil
	default:
		return nil, nil, fmt.Errorf("driver %q: %w", cfg.Driver, dbexec.ErrUnknownDriver)
	}
}

func buildExecutor(cfg *config.ProjectConfig, classifier dbexec.ErrorClassifier, logger dbexec.Logger) (*retry.Executor, error) {
	attempts := cfg.Retry.Attempts
	if attempts < 1 {
		attempts = 1
	}
	wait := cfg.Retry.RecoveryWaitTime()

	var strategy dbexec.BackoffStrategy
	if cfg.Retry.Jitter {
		backoff, err := retry.NewExponentialBackoff(attempts,
			retry.WithInitialDelay(wait),
			retry.WithJitter(0.2),
		)
		if err != nil {
			return nil, err
		}
		strategy = backoff
	} else {
		backoff, err := retry.NewRecoveryBackoff(attempts, wait)
		if err != nil {
			return nil, err
		}
		strategy = backoff
	}

	executor := retry.NewExecutor(classifier, strategy).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Info("attempt %d failed (%v), retrying in %s", attempt, err, delay)
		})
	if !cfg.Retry.Enabled {
		executor = executor.WithRecoveryDisabled()
	}
	return executor, nil
}

// buildParameters merges config defaults, --params-file files and --param
// flags into the bind set for a command.
func buildParameters(cmd *cobra.Command, cfg *config.ProjectConfig) (*dbexec.ParameterSet, error) {
	files, _ := cmd.Flags().GetStringSlice("params-file")
	pairs, _ := cmd.Flags().GetStringArray("param")
	return params.Build(cfg.Params, files, pairs)
}

// previewSQL bounds statement text quoted in diagnostics.
func previewSQL(text string) string {
	if len(text) <= dbexec.MaxErrorPreviewLength {
		return text
	}
	return text[:dbexec.MaxErrorPreviewLength] + "..."
}

// descriptorFor builds the command descriptor shared by every subcommand.
func (rt *commandRuntime) descriptorFor(cmd *cobra.Command, text string) dbexec.CommandDescriptor {
	desc := dbexec.NewCommand(text)
	if procedure, _ := cmd.Flags().GetBool("procedure"); procedure {
		desc = dbexec.NewStoredProcedure(text)
	}
	return desc.WithTimeout(rt.timeout)
}
