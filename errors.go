package simpleado

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/binhle004/simpleado/connstr"
)

// ErrorCode represents a database error classification
type ErrorCode string

const (
	CodeConfiguration    ErrorCode = "CONFIGURATION"
	CodeDuplicate        ErrorCode = "DUPLICATE"
	CodeForeignKey       ErrorCode = "FOREIGN_KEY"
	CodeCheckViolation   ErrorCode = "CHECK_VIOLATION"
	CodeNotNullViolation ErrorCode = "NOT_NULL"
	CodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	CodeTimeout          ErrorCode = "TIMEOUT"
	CodeCanceled         ErrorCode = "CANCELED"
	CodeSerialization    ErrorCode = "SERIALIZATION"
	CodeDeadlock         ErrorCode = "DEADLOCK"
	CodeSyntax           ErrorCode = "SYNTAX"
	CodeUnknown          ErrorCode = "UNKNOWN"
)

// Errors raised by this package. Driver errors are returned as the driver
// produced them.
var (
	// ErrConfiguration matches connection-string resolution failures.
	ErrConfiguration        = connstr.ErrNotRegistered
	ErrEmptyCommandText     = errors.New("simpleado: empty command text")
	ErrProcedureUnsupported = errors.New("simpleado: stored procedures not supported by dialect")
	ErrNilLoader            = errors.New("simpleado: nil loader")
	ErrEngineClosed         = errors.New("simpleado: engine closed")
)

// SQLState returns the five-character SQLSTATE carried by a PostgreSQL error
// from pgx, lib/pq or bun's pgdriver.
func SQLState(err error) (string, bool) {
	return pgField(err,
		func(e *pgconn.PgError) string { return e.Code },
		func(e *pq.Error) string { return string(e.Code) },
		'C')
}

// Classify maps err to an ErrorCode. It returns "" for nil.
func Classify(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrConfiguration) {
		return CodeConfiguration
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}
	if errors.Is(err, context.Canceled) {
		return CodeCanceled
	}

	// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
	if code, ok := SQLState(err); ok {
		switch code {
		case "23505": // unique_violation
			return CodeDuplicate
		case "23503": // foreign_key_violation
			return CodeForeignKey
		case "23502": // not_null_violation
			return CodeNotNullViolation
		case "23514": // check_violation
			return CodeCheckViolation
		case "40001": // serialization_failure
			return CodeSerialization
		case "40P01": // deadlock_detected
			return CodeDeadlock
		case "57014": // query_canceled (statement timeout)
			return CodeTimeout
		case "42601": // syntax_error
			return CodeSyntax
		}
		if strings.HasPrefix(code, "08") {
			return CodeConnectionFailed
		}
		return CodeUnknown
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return CodeConnectionFailed
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return CodeTimeout
		}
		return CodeConnectionFailed
	}
	return CodeUnknown
}

// IsConfiguration checks if error is a connection-string resolution error
func IsConfiguration(err error) bool {
	return Classify(err) == CodeConfiguration
}

// IsDuplicate checks if error is a duplicate key error
func IsDuplicate(err error) bool {
	return Classify(err) == CodeDuplicate
}

// IsForeignKey checks if error is a foreign key error
func IsForeignKey(err error) bool {
	return Classify(err) == CodeForeignKey
}

// IsCheckViolation checks if error is a check constraint error
func IsCheckViolation(err error) bool {
	return Classify(err) == CodeCheckViolation
}

// IsNotNullViolation checks if error is a not null violation error
func IsNotNullViolation(err error) bool {
	return Classify(err) == CodeNotNullViolation
}

// IsConnection checks if error is a connection error
func IsConnection(err error) bool {
	return Classify(err) == CodeConnectionFailed
}

// IsTimeout checks if error is a timeout error
func IsTimeout(err error) bool {
	return Classify(err) == CodeTimeout
}

// IsCanceled checks if the command was canceled by its context
func IsCanceled(err error) bool {
	return Classify(err) == CodeCanceled
}

// IsRetryable checks if the error is retryable (serialization, deadlock)
func IsRetryable(err error) bool {
	switch Classify(err) {
	case CodeSerialization, CodeDeadlock:
		return true
	}
	return false
}

// GetConstraint extracts the constraint name if available
func GetConstraint(err error) (string, bool) {
	return pgField(err,
		func(e *pgconn.PgError) string { return e.ConstraintName },
		func(e *pq.Error) string { return e.Constraint },
		'n')
}

// GetTable extracts the table name if available
func GetTable(err error) (string, bool) {
	return pgField(err,
		func(e *pgconn.PgError) string { return e.TableName },
		func(e *pq.Error) string { return e.Table },
		't')
}

// GetColumn extracts the column name if available
func GetColumn(err error) (string, bool) {
	return pgField(err,
		func(e *pgconn.PgError) string { return e.ColumnName },
		func(e *pq.Error) string { return e.Column },
		'c')
}

// GetDetail extracts the error detail if available
func GetDetail(err error) (string, bool) {
	return pgField(err,
		func(e *pgconn.PgError) string { return e.Detail },
		func(e *pq.Error) string { return e.Detail },
		'D')
}

// GetHint extracts the error hint if available
func GetHint(err error) (string, bool) {
	return pgField(err,
		func(e *pgconn.PgError) string { return e.Hint },
		func(e *pq.Error) string { return e.Hint },
		'H')
}

// pgField reads one field of a PostgreSQL error from whichever driver produced
// it. k is the protocol field code used by pgdriver.
func pgField(err error, pgx func(*pgconn.PgError) string, lib func(*pq.Error) string, k byte) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		v := pgx(pgErr)
		return v, v != ""
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		v := lib(pqErr)
		return v, v != ""
	}
	var drvErr pgdriver.Error
	if errors.As(err, &drvErr) {
		v := drvErr.Field(k)
		return v, v != ""
	}
	return "", false
}
