package retry

import (
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// SQLiteErrorClassifier implements dbexec.ErrorClassifier for errors
// surfaced by mattn/go-sqlite3. Only lock contention is transient: SQLite
// has no network layer, so everything else is a data or schema problem.
type SQLiteErrorClassifier struct{}

// NewSQLiteErrorClassifier creates a new SQLite error classifier.
func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *SQLiteErrorClassifier) IsTransient(err error) bool {
	if err == nil || neverRetryable(err) {
		return false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	return false
}

var _ dbexec.ErrorClassifier = (*SQLiteErrorClassifier)(nil)
