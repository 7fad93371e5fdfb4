// Package sqldb binds the dbexec driver interfaces to database/sql,
// parameterized by a Dialect. Each Connect yields one pinned sql.Conn, so
// the no-sharing-across-attempts discipline holds even though database/sql
// pools underneath.
//
// Importing this package does not register any database/sql driver; the
// caller imports the driver package for the dialect it uses:
//
//	import _ "github.com/go-sql-driver/mysql"
//	import _ "github.com/mattn/go-sqlite3"
package sqldb

import (
	"fmt"
	"strings"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// Dialect captures the per-engine differences this binding needs:
// placeholder style, stored-procedure call syntax and the identity query.
type Dialect struct {
	// Name identifies the dialect in configuration and errors.
	Name string

	// DriverName is the database/sql driver to open.
	DriverName string

	// Placeholder renders the i-th (zero-based) positional placeholder.
	Placeholder func(i int) string

	// Call renders a stored-procedure invocation, or fails when the engine
	// has no procedures.
	Call func(name string, placeholders []string) (string, error)

	// IdentityQuery retrieves the last inserted identity on the current
	// connection. Empty means the dialect has no identity support.
	IdentityQuery string
}

// MySQL is the go-sql-driver/mysql dialect.
var MySQL = Dialect{
	Name:       "mysql",
	DriverName: "mysql",
	Placeholder: func(int) string {
		return "?"
	},
	Call: func(name string, placeholders []string) (string, error) {
		return fmt.Sprintf("CALL %s(%s)", name, strings.Join(placeholders, ", ")), nil
	},
	IdentityQuery: "SELECT LAST_INSERT_ID()",
}

// SQLite is the mattn/go-sqlite3 dialect.
var SQLite = Dialect{
	Name:       "sqlite",
	DriverName: "sqlite3",
	Placeholder: func(int) string {
		return "?"
	},
	Call: func(name string, placeholders []string) (string, error) {
		return "", fmt.Errorf("sqlite has no stored procedures: %w", dbexec.ErrUnknownDriver)
	},
	IdentityQuery: "SELECT last_insert_rowid()",
}

// DialectByName resolves a dialect from its configuration name.
func DialectByName(name string) (Dialect, error) {
	switch name {
	case MySQL.Name:
		return MySQL, nil
	case SQLite.Name, "sqlite3":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("dialect %q: %w", name, dbexec.ErrUnknownDriver)
	}
}
