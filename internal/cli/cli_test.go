package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kvanta-io/dbexec/internal/config"
	"github.com/kvanta-io/dbexec/internal/logging"
	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// runCLI executes the root command with the given args and captures stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCLI_ExecScalarQuery(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "cli_test.db")

	out, err := runCLI(t, "exec", "--driver", "sqlite", "--dsn", dsn,
		"CREATE TABLE tenants (name TEXT, quota INTEGER)")
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	if !strings.Contains(out, "row(s) affected") {
		t.Errorf("output = %q", out)
	}

	_, err = runCLI(t, "exec", "--driver", "sqlite", "--dsn", dsn,
		"--param", "name=acme", "--param", "quota=100",
		"INSERT INTO tenants (name, quota) VALUES (@name, @quota)")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	out, err = runCLI(t, "scalar", "--driver", "sqlite", "--dsn", dsn,
		"--as", "int64", "SELECT quota FROM tenants WHERE name = 'acme'")
	if err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if strings.TrimSpace(out) != "100" {
		t.Errorf("scalar output = %q, want 100", out)
	}

	out, err = runCLI(t, "query", "--driver", "sqlite", "--dsn", dsn,
		"SELECT name, quota FROM tenants")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(out, "acme\t100") {
		t.Errorf("query output = %q", out)
	}
}

func TestCLI_MissingDSN(t *testing.T) {
	_, err := runCLI(t, "exec", "--driver", "sqlite", "--dsn", "", "SELECT 1")
	if !errors.Is(err, dbexec.ErrInvalidConfig) {
		t.Errorf("got %v, want ErrInvalidConfig", err)
	}
}

func TestCLI_UnknownDriver(t *testing.T) {
	_, err := runCLI(t, "exec", "--driver", "mssql", "--dsn", "x", "SELECT 1")
	if !errors.Is(err, dbexec.ErrUnknownDriver) {
		t.Errorf("got %v, want ErrUnknownDriver", err)
	}
}

func TestBuildExecutor(t *testing.T) {
	cfg := config.Default()
	cfg.Retry.Attempts = 3
	cfg.Retry.RecoveryWait = "2s"

	executor, err := buildExecutor(cfg, noopClassifier{}, logging.NewNullLogger())
	if err != nil {
		t.Fatalf("buildExecutor: %v", err)
	}
	if executor == nil {
		t.Fatal("nil executor")
	}

	cfg.Retry.Jitter = true
	executor, err = buildExecutor(cfg, noopClassifier{}, logging.NewNullLogger())
	if err != nil {
		t.Fatalf("buildExecutor with jitter: %v", err)
	}
	if executor == nil {
		t.Fatal("nil executor with jitter")
	}
}

type noopClassifier struct{}

func (noopClassifier) IsTransient(error) bool { return false }

func TestDescriptorFor(t *testing.T) {
	rt := &commandRuntime{timeout: 45 * time.Second}

	cmd := execCmd
	if err := cmd.Flags().Set("procedure", "false"); err != nil {
		t.Fatal(err)
	}
	desc := rt.descriptorFor(cmd, "SELECT 1")
	if desc.Kind != dbexec.CommandText || desc.Timeout != 45*time.Second {
		t.Errorf("desc = %+v", desc)
	}

	if err := cmd.Flags().Set("procedure", "true"); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cmd.Flags().Set("procedure", "false") }()
	desc = rt.descriptorFor(cmd, "close_period")
	if desc.Kind != dbexec.CommandStoredProcedure {
		t.Errorf("desc = %+v", desc)
	}
}
