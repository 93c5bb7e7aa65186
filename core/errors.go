package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return "validation error"
	}
	return err.Err.Error()
}

type DomainErrorKind int

const (
	KindNotFound DomainErrorKind = iota
	KindInvalid
	KindUnauthenticated
	KindForbidden
)

// DomainError is a request that is well formed but cannot be applied to the current state of the records.
type DomainError struct {
	Kind    DomainErrorKind
	Message string
}

func (err DomainError) Error() string {
	return err.Message
}

func NewNotFoundError(msg string) error {
	return &DomainError{Kind: KindNotFound, Message: msg}
}

func NewInvalidError(msg string) error {
	return &DomainError{Kind: KindInvalid, Message: msg}
}

func NewUnauthenticatedError(msg string) error {
	return &DomainError{Kind: KindUnauthenticated, Message: msg}
}

func NewForbiddenError(msg string) error {
	return &DomainError{Kind: KindForbidden, Message: msg}
}

// IsNotFound reports whether err is a DomainError of kind KindNotFound.
func IsNotFound(err error) bool {
	derr, ok := errors.Cause(err).(*DomainError)
	return ok && derr.Kind == KindNotFound
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
