package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the request layer can map them to responses.
type ErrorKind string

const (
	ErrorKindValidation       ErrorKind = "VALIDATION"
	ErrorKindNotFound         ErrorKind = "NOT_FOUND"
	ErrorKindDuplicateInvoice ErrorKind = "DUPLICATE_INVOICE"
	ErrorKindPersistence      ErrorKind = "PERSISTENCE"
	ErrorKindState            ErrorKind = "STATE"
	ErrorKindUnauthorized     ErrorKind = "UNAUTHORIZED"
	ErrorKindForbidden        ErrorKind = "FORBIDDEN"
	ErrorKindConflict         ErrorKind = "CONFLICT"
)

// Error is the single error type surfaced by the core.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind so errors.Is(err, ErrNotFound) works for any not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

var (
	ErrValidation       = &Error{Kind: ErrorKindValidation}
	ErrNotFound         = &Error{Kind: ErrorKindNotFound}
	ErrDuplicateInvoice = &Error{Kind: ErrorKindDuplicateInvoice}
	ErrPersistence      = &Error{Kind: ErrorKindPersistence}
	ErrState            = &Error{Kind: ErrorKindState}
	ErrUnauthorized     = &Error{Kind: ErrorKindUnauthorized}
	ErrForbidden        = &Error{Kind: ErrorKindForbidden}
	ErrConflict         = &Error{Kind: ErrorKindConflict}
)

func NewValidationError(message string) *Error {
	return &Error{Kind: ErrorKindValidation, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: ErrorKindNotFound, Message: message}
}

func NewStateError(message string) *Error {
	return &Error{Kind: ErrorKindState, Message: message}
}

// NewConflictError reports a write that clashes with an existing record, such as a taken username.
func NewConflictError(message string) *Error {
	return &Error{Kind: ErrorKindConflict, Message: message}
}

func NewDuplicateInvoiceError(residentID int32, period Period) *Error {
	return &Error{
		Kind:    ErrorKindDuplicateInvoice,
		Message: fmt.Sprintf("resident %d already has an invoice for %s", residentID, period),
	}
}

// NewPersistenceError wraps a store failure. Already classified errors pass through.
func NewPersistenceError(message string, err error) error {
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: ErrorKindPersistence, Message: message, Err: err}
}

// KindOf returns the kind of err, or PERSISTENCE for unclassified errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrorKindPersistence
}
