package apperrors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type statusErr struct {
	status int
	code   string
}

func (e statusErr) Error() string    { return fmt.Sprintf("status %d", e.status) }
func (e statusErr) HTTPStatus() int  { return e.status }
func (e statusErr) SQLState() string { return e.code }

func TestClassifyWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.WriteErrorClass
	}{
		{name: "nil error", err: nil, want: apperrors.Unknown},
		{name: "row level security", err: &pgconn.PgError{Code: "42501"}, want: apperrors.Permission},
		{name: "invalid password", err: &pgconn.PgError{Code: "28P01"}, want: apperrors.Permission},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, want: apperrors.Constraint},
		{name: "check violation wrapped", err: fmt.Errorf("insert items: %w", &pgconn.PgError{Code: "23514"}), want: apperrors.Constraint},
		{name: "numeric out of range", err: &pgconn.PgError{Code: "22003"}, want: apperrors.Constraint},
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, want: apperrors.Transient},
		{name: "connection failure", err: &pgconn.PgError{Code: "08006"}, want: apperrors.Transient},
		{name: "too many connections", err: &pgconn.PgError{Code: "53300"}, want: apperrors.Transient},
		{name: "syntax error", err: &pgconn.PgError{Code: "42601"}, want: apperrors.Unknown},
		{name: "rest forbidden", err: statusErr{status: 403}, want: apperrors.Permission},
		{name: "rest conflict", err: statusErr{status: 409}, want: apperrors.Constraint},
		{name: "rest throttled", err: statusErr{status: 429}, want: apperrors.Transient},
		{name: "rest sqlstate wins over status", err: statusErr{status: 400, code: "42501"}, want: apperrors.Permission},
		{name: "rest teapot", err: statusErr{status: 418}, want: apperrors.Unknown},
		{name: "validation sentinel", err: fmt.Errorf("%w: bad quantity", apperrors.ErrValidation), want: apperrors.Constraint},
		{name: "deadline exceeded", err: fmt.Errorf("write: %w", context.DeadlineExceeded), want: apperrors.Transient},
		{name: "plain error", err: errors.New("boom"), want: apperrors.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.ClassifyWriteError(tt.err))
		})
	}
}

func TestWriteErrorClass_Retryable(t *testing.T) {
	assert.True(t, apperrors.Transient.Retryable())
	assert.False(t, apperrors.Permission.Retryable())
	assert.False(t, apperrors.Constraint.Retryable())
	assert.False(t, apperrors.Unknown.Retryable())
	assert.Equal(t, "permission", apperrors.Permission.String())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := &pgconn.PgError{Code: "42501"}
	err := apperrors.NewAppError(500, "failed to insert items", cause)

	assert.Contains(t, err.Error(), "failed to insert items")
	assert.Contains(t, err.Error(), "42501")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperrors.Permission, apperrors.ClassifyWriteError(err))
}
