package apperrors

import (
	"errors"
)

// Error kinds. Every error that reaches the HTTP boundary is expected to wrap one of them
var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrUpload          = errors.New("upload failed")
	ErrPersistence     = errors.New("persistence failed")
	ErrTokenIssuance   = errors.New("token issuance failed")
	ErrInvalidToken    = errors.New("invalid token")
)

// Storage level errors
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrVideoNotFound        = errors.New("video not found")
)

// Error carries message that is safe to show to the client
// It unwraps both to its kind and to the cause (if any)
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func Unauthenticated(msg string) error {
	return &Error{Kind: ErrUnauthenticated, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func Upload(msg string, cause error) error {
	return &Error{Kind: ErrUpload, Message: msg, Cause: cause}
}

func Persistence(msg string, cause error) error {
	return &Error{Kind: ErrPersistence, Message: msg, Cause: cause}
}

func TokenIssuance(msg string, cause error) error {
	return &Error{Kind: ErrTokenIssuance, Message: msg, Cause: cause}
}

func InvalidToken(msg string, cause error) error {
	return &Error{Kind: ErrInvalidToken, Message: msg, Cause: cause}
}
