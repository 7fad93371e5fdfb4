package retry

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// MySQL server error numbers for transient conditions
// See: https://dev.mysql.com/doc/mysql-errors/en/server-error-reference.html
const (
	myCodeTooManyConnections = 1040
	myCodeServerShutdown     = 1053
	myCodeLockWaitTimeout    = 1205
	myCodeDeadlock           = 1213
	myCodeConnectionKilled   = 1927
	myCodeMaxUserConnections = 1226
)

// MySQLErrorClassifier implements dbexec.ErrorClassifier for errors
// surfaced by go-sql-driver/mysql.
type MySQLErrorClassifier struct{}

// NewMySQLErrorClassifier creates a new MySQL error classifier.
func NewMySQLErrorClassifier() *MySQLErrorClassifier {
	return &MySQLErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *MySQLErrorClassifier) IsTransient(err error) bool {
	if err == nil || neverRetryable(err) {
		return false
	}

	// The driver marks a connection it discarded mid-use; the next attempt
	// gets a fresh one.
	if errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case myCodeTooManyConnections,
			myCodeServerShutdown,
			myCodeLockWaitTimeout,
			myCodeDeadlock,
			myCodeConnectionKilled,
			myCodeMaxUserConnections:
			return true
		}
		return false
	}

	if isNetworkError(err) {
		return true
	}

	return matchesTransientPattern(err)
}

var _ dbexec.ErrorClassifier = (*MySQLErrorClassifier)(nil)
