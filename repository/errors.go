package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// Sentinel errors the repositories translate driver failures into, so
// callers can branch with errors.Is instead of sniffing SQL errors.
var (
	// ErrDuplicateUser reports a username or email collision.
	ErrDuplicateUser = errors.New("username or email already exists")
	// ErrDuplicateEntry reports a unique-key collision on a membership
	// row (favorite, playlist song).
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// mysqlDuplicateEntry is the MySQL error number for unique-key violations.
const mysqlDuplicateEntry = 1062

func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
