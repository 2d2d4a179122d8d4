package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrMissingConfig indicates that required configuration (URL, key) was not provided.
var ErrMissingConfig = errors.New("missing configuration")

// ErrEmptyCatalog indicates that no products or stores are available even after fallback synthesis.
var ErrEmptyCatalog = errors.New("empty catalog")

// ErrStoreUnavailable indicates that the remote store could not be reached.
var ErrStoreUnavailable = errors.New("store unavailable")

// AppError carries an HTTP-like status code alongside a message and the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
