package syncerrors

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	// ErrTypeTransient covers upstream network failures and non-2xx
	// responses. The account is skipped for this run and retried on the
	// next scheduled run, never in-process.
	ErrTypeTransient ErrorType = "TRANSIENT_SOURCE"
	// ErrTypeUnsupportedPlatform marks accounts whose entry URL matches no
	// adapter. Expected steady-state, counted apart from errors.
	ErrTypeUnsupportedPlatform ErrorType = "UNSUPPORTED_PLATFORM"
	// ErrTypeNormalization marks a single listing whose payload could not be
	// converted to the canonical schema. The item is skipped, the run
	// continues.
	ErrTypeNormalization ErrorType = "NORMALIZATION"
	// ErrTypePersistence marks a failed store write for one document.
	ErrTypePersistence ErrorType = "PERSISTENCE"
	// ErrTypeFatal aborts the whole run. Only raised when the store is
	// unreachable at startup.
	ErrTypeFatal ErrorType = "FATAL"
)

type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func Transient(message string, err error) *DomainError {
	return New(ErrTypeTransient, message, err)
}

func UnsupportedPlatform(message string, err error) *DomainError {
	return New(ErrTypeUnsupportedPlatform, message, err)
}

func Normalization(message string, err error) *DomainError {
	return New(ErrTypeNormalization, message, err)
}

func Persistence(message string, err error) *DomainError {
	return New(ErrTypePersistence, message, err)
}

func Fatal(message string, err error) *DomainError {
	return New(ErrTypeFatal, message, err)
}

// TypeOf sorts an arbitrary error into the taxonomy so callers can pick the
// right counter. Unclassified errors count as transient.
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ErrTypeTransient
}

func Is(err error, t ErrorType) bool {
	return TypeOf(err) == t
}
