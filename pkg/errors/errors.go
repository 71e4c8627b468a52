package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the domain error: a stable machine code, an HTTP status and a
// user-facing message, optionally wrapping a cause.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches two domain errors by code, so errors.Is(err, ErrNotFound)
// works regardless of the message a call site attached.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e != nil && other != nil && e.Code == other.Code
}

// New builds a fresh domain error.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches a code, status and message to a cause.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Sentinels for the conditions the API distinguishes. Call sites override
// the message with Clone.
var (
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "recurso no encontrado")
	ErrConflict   = New("CONFLICT", http.StatusConflict, "conflicto")
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "datos inválidos")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "error interno del servidor")
)

// FromError normalises any error into an *Error; unknown errors become
// internal ones.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone copies a sentinel with a call-site message.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
