package db

import (
	"strings"

	"github.com/teranos/edtf/errors"
)

// ErrDatabaseClosed is returned when the catalog is used after Close.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed checks if an error is ErrDatabaseClosed or a raw driver
// error reporting a closed database.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}

	errMsg := err.Error()
	return strings.Contains(errMsg, "database is closed") ||
		strings.Contains(errMsg, "sql: database is closed")
}
