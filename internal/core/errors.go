package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every user-facing failure wraps exactly one of them so the
// request boundary can pick a status code with errors.Is.
var (
	ErrValidation   = errors.New("validation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error carries a kind, a message safe to show to the caller and an
// optional underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func Validation(msg string) error   { return &Error{Kind: ErrValidation, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }
func Forbidden(msg string) error    { return &Error{Kind: ErrForbidden, Message: msg} }
func NotFound(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
func Conflict(msg string) error     { return &Error{Kind: ErrConflict, Message: msg} }

// Message returns the caller-facing message of err, or "" when err does not
// carry one.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// Sentinel validation errors shared by the entity validators.
var (
	ErrInvalidAmount   = &Error{Kind: ErrValidation, Message: "Please provide a valid amount"}
	ErrInvalidDate     = &Error{Kind: ErrValidation, Message: "Please provide a valid date"}
	ErrInvalidKind     = &Error{Kind: ErrValidation, Message: "Category kind must be income or expense"}
	ErrInvalidPeriod   = &Error{Kind: ErrValidation, Message: "Budget period must be daily, weekly or monthly"}
	ErrInvalidCurrency = &Error{Kind: ErrValidation, Message: "Unsupported currency"}
	ErrEmptyCategory   = &Error{Kind: ErrValidation, Message: "Please provide category and amount"}
)
