package apperrors

import (
	"errors"
	"fmt"
)

// ErrValidation indicates that input data failed validation checks (e.g. a bad currency code).
var ErrValidation = errors.New("validation error")

// ErrFetch indicates a network or HTTP failure while retrieving a feed.
var ErrFetch = errors.New("fetch failure")

// ErrPayload indicates a malformed or empty feed payload.
var ErrPayload = errors.New("payload failure")

// ErrPersistence indicates a store connectivity or statement execution failure.
var ErrPersistence = errors.New("persistence failure")

// ErrUnexpected is the catch-all kind for anything outside the taxonomy.
var ErrUnexpected = errors.New("unexpected error")

// AppError carries a taxonomy kind together with a message and the underlying cause.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewAppError builds an AppError of the given kind.
func NewAppError(kind error, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NewFetchError(message string, err error) *AppError {
	return NewAppError(ErrFetch, message, err)
}

func NewPayloadError(message string, err error) *AppError {
	return NewAppError(ErrPayload, message, err)
}

func NewPersistenceError(message string, err error) *AppError {
	return NewAppError(ErrPersistence, message, err)
}

func NewValidationError(message string) *AppError {
	return NewAppError(ErrValidation, message, nil)
}

// KindOf classifies err into the job's error taxonomy. Unknown errors are ErrUnexpected.
func KindOf(err error) error {
	for _, kind := range []error{ErrFetch, ErrPayload, ErrPersistence, ErrValidation} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrUnexpected
}

// IsRecoverable reports whether a failure only ends its own unit of work (a single record pair)
// rather than the whole run.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrPersistence)
}
