package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
	ErrValidation   = errors.New("validation failed")

	// ErrJobNotFound is returned by ledger updates that match no live job row.
	ErrJobNotFound = errors.New("upload job not found or deleted")
	// ErrUnavailable marks infrastructure failures (connection lost, timeouts).
	ErrUnavailable = errors.New("backing service unavailable")
	// ErrReferenceLoad marks a failed load of a required lookup table.
	ErrReferenceLoad = errors.New("reference data load failed")
	// ErrRowRejected marks a write the database refused because of the row's
	// own data (constraint, type or length violations).
	ErrRowRejected = errors.New("row rejected by database")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Unavailable wraps err so that errors.Is(err, ErrUnavailable) holds.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// Rejected wraps err so that errors.Is(err, ErrRowRejected) holds. The
// message is err's own, so it can be shown to the uploader as is.
func Rejected(err error) error {
	if err == nil || errors.Is(err, ErrRowRejected) {
		return err
	}
	return rejectedError{err: err}
}

type rejectedError struct{ err error }

func (e rejectedError) Error() string { return e.err.Error() }
func (e rejectedError) Unwrap() []error { return []error{ErrRowRejected, e.err} }

// IsInfrastructure reports whether err should abort a whole import job.
func IsInfrastructure(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrReferenceLoad) || errors.Is(err, ErrJobNotFound)
}
