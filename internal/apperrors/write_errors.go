package apperrors

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// WriteErrorClass groups write failures by how the batch committer reacts to them.
type WriteErrorClass int

const (
	// Unknown failures abort the current batch.
	Unknown WriteErrorClass = iota
	// Permission failures (row-level security, bad role) are skipped with a warning.
	Permission
	// Constraint failures (FK, check, not-null, bad data) are skipped with a warning.
	Constraint
	// Transient failures (connection, serialization, throttling) are retried with backoff.
	Transient
)

func (c WriteErrorClass) String() string {
	switch c {
	case Permission:
		return "permission"
	case Constraint:
		return "constraint"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// Retryable reports whether the class is worth retrying as-is.
func (c WriteErrorClass) Retryable() bool {
	return c == Transient
}

// sqlStateError is implemented by *pgconn.PgError and by REST API errors that carry
// the Postgres error code PostgREST forwards.
type sqlStateError interface {
	SQLState() string
}

// httpStatusError is implemented by REST API errors.
type httpStatusError interface {
	HTTPStatus() int
}

// ClassifyWriteError maps a write failure to a WriteErrorClass.
func ClassifyWriteError(err error) WriteErrorClass {
	if err == nil {
		return Unknown
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrDuplicate) {
		return Constraint
	}

	var sqlErr sqlStateError
	if errors.As(err, &sqlErr) && sqlErr.SQLState() != "" {
		if class, ok := classifySQLState(sqlErr.SQLState()); ok {
			return class
		}
	}

	var statusErr httpStatusError
	if errors.As(err, &statusErr) {
		if class, ok := classifyHTTPStatus(statusErr.HTTPStatus()); ok {
			return class
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return Transient
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Transient
	}
	return Unknown
}

func classifySQLState(code string) (WriteErrorClass, bool) {
	switch code {
	case "42501": // insufficient_privilege, raised by row-level security
		return Permission, true
	case "40001", "40P01", "53300", "57P01", "57P02", "57P03", "55P03":
		return Transient, true
	}
	switch {
	case strings.HasPrefix(code, "28"): // invalid authorization
		return Permission, true
	case strings.HasPrefix(code, "23"), strings.HasPrefix(code, "22"):
		return Constraint, true
	case strings.HasPrefix(code, "08"):
		return Transient, true
	}
	return Unknown, false
}

func classifyHTTPStatus(status int) (WriteErrorClass, bool) {
	switch status {
	case 401, 403:
		return Permission, true
	case 400, 409, 422:
		return Constraint, true
	case 408, 425, 429, 500, 502, 503, 504:
		return Transient, true
	}
	return Unknown, false
}
