package sqldb_test

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kvanta-io/dbexec/internal/driver/sqldb"
	"github.com/kvanta-io/dbexec/internal/exec"
	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// newSQLiteRunner opens a file-backed database under t.TempDir so the
// separate connections the runner opens per operation all see the same data.
func newSQLiteRunner(t *testing.T) *exec.Runner {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "dbexec_test.db")
	return exec.New(sqldb.NewConnector(sqldb.SQLite, dsn))
}

func mustNonQuery(t *testing.T, r *exec.Runner, sql string, params *dbexec.ParameterSet) int64 {
	t.Helper()
	n, err := r.NonQuery(context.Background(), dbexec.NewCommand(sql), params)
	if err != nil {
		t.Fatalf("NonQuery(%q): %v", sql, err)
	}
	return n
}

func TestSQLite_NonQueryScalarRoundTrip(t *testing.T) {
	runner := newSQLiteRunner(t)

	mustNonQuery(t, runner, "CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT, weight REAL)", nil)

	params := dbexec.NewParameterSet()
	if err := params.Add("name", "anvil"); err != nil {
		t.Fatal(err)
	}
	if err := params.Add("weight", 12.5); err != nil {
		t.Fatal(err)
	}
	affected := mustNonQuery(t, runner, "INSERT INTO widgets (name, weight) VALUES (@name, @weight)", params)
	if affected != 1 {
		t.Errorf("affected = %d, want 1", affected)
	}

	lookup := dbexec.NewParameterSet()
	if err := lookup.Add("name", "anvil"); err != nil {
		t.Fatal(err)
	}
	value, err := runner.Scalar(context.Background(), dbexec.NewCommand("SELECT weight FROM widgets WHERE name = @name"), lookup)
	if err != nil {
		t.Fatalf("Scalar: %v", err)
	}
	if got, ok := value.(float64); !ok || got != 12.5 {
		t.Errorf("scalar = %v (%T), want 12.5", value, value)
	}
}

func TestSQLite_ScalarEmptyResultIsNil(t *testing.T) {
	runner := newSQLiteRunner(t)
	mustNonQuery(t, runner, "CREATE TABLE empty_t (id INTEGER)", nil)

	value, err := runner.Scalar(context.Background(), dbexec.NewCommand("SELECT id FROM empty_t"), nil)
	if err != nil {
		t.Fatalf("Scalar: %v", err)
	}
	if value != nil {
		t.Errorf("scalar = %v, want nil", value)
	}
}

func TestSQLite_QueryIteratesAndReleases(t *testing.T) {
	runner := newSQLiteRunner(t)
	mustNonQuery(t, runner, "CREATE TABLE nums (n INTEGER)", nil)
	for i := 1; i <= 3; i++ {
		params := dbexec.NewParameterSet()
		if err := params.Add("n", i); err != nil {
			t.Fatal(err)
		}
		mustNonQuery(t, runner, "INSERT INTO nums (n) VALUES (@n)", params)
	}

	rows, err := runner.Query(context.Background(), dbexec.NewCommand("SELECT n FROM nums ORDER BY n"), nil)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	defer rows.Close()

	if rows.FieldCount() != 1 {
		t.Errorf("FieldCount = %d, want 1", rows.FieldCount())
	}

	var got []int64
	for rows.Next() {
		v, err := rows.Value(0)
		if err != nil {
			t.Fatalf("Value: %v", err)
		}
		got = append(got, v.(int64))
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows iteration: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("rows = %v, want [1 2 3]", got)
	}

	if err := rows.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	// Second close is a no-op.
	if err := rows.Close(); err != nil {
		t.Errorf("repeated Close: %v", err)
	}
}

func TestSQLite_SyntaxErrorPropagates(t *testing.T) {
	runner := newSQLiteRunner(t)

	_, err := runner.NonQuery(context.Background(), dbexec.NewCommand("NOT VALID SQL"), nil)
	if err == nil {
		t.Fatal("expected error for invalid statement")
	}
}

func TestSQLite_MissingParameterRejected(t *testing.T) {
	runner := newSQLiteRunner(t)
	mustNonQuery(t, runner, "CREATE TABLE t (a TEXT)", nil)

	_, err := runner.NonQuery(context.Background(), dbexec.NewCommand("INSERT INTO t (a) VALUES (@missing)"), nil)
	if err == nil {
		t.Fatal("expected error for unresolved parameter")
	}
}

func TestSQLite_TypedScalar(t *testing.T) {
	runner := newSQLiteRunner(t)
	mustNonQuery(t, runner, "CREATE TABLE counters (v INTEGER)", nil)
	params := dbexec.NewParameterSet()
	if err := params.Add("v", 42); err != nil {
		t.Fatal(err)
	}
	mustNonQuery(t, runner, "INSERT INTO counters (v) VALUES (@v)", params)

	got, err := exec.ScalarAs[int64](context.Background(), runner, dbexec.NewCommand("SELECT v FROM counters"), nil, exec.DefaultConverter())
	if err != nil {
		t.Fatalf("ScalarAs: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}
