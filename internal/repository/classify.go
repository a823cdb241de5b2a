package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
)

// MySQL server errors caused by the row's own values.
var mysqlRowErrors = map[uint16]bool{
	1048: true, // column cannot be null
	1062: true, // duplicate entry
	1264: true, // out of range value
	1265: true, // data truncated
	1292: true, // incorrect date/time value
	1364: true, // field has no default
	1366: true, // incorrect value for column
	1406: true, // data too long
	1451: true, // foreign key: parent row in use
	1452: true, // foreign key: no parent row
}

// classify marks connection-level failures as common.ErrUnavailable so the
// pipeline can tell an outage from a rejected row.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isConnectionError(err) {
		return common.Unavailable(err)
	}
	return err
}

// classifyInsert sorts a failed INSERT into one of two buckets. Errors caused
// by the row (constraint, type, length) become common.ErrRowRejected; all
// other failures, including permission and missing-table errors, are
// common.ErrUnavailable.
func classifyInsert(err error) error {
	if err == nil {
		return nil
	}
	if !isConnectionError(err) && isRowError(err) {
		return common.Rejected(err)
	}
	return common.Unavailable(err)
}

func isRowError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 22 data exception, class 23 integrity constraint violation
		return strings.HasPrefix(pgErr.Code, "22") || strings.HasPrefix(pgErr.Code, "23")
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return mysqlRowErrors[myErr.Number]
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_MISMATCH, sqlite3.SQLITE_TOOBIG:
			return true
		}
	}
	return false
}

func isConnectionError(err error) bool {
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
