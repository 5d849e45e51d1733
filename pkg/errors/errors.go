package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation      = NewError("VALIDATION_ERROR", "validation failed", http.StatusBadRequest)
	ErrPayloadTooLarge = NewError("PAYLOAD_TOO_LARGE", "payload too large", http.StatusRequestEntityTooLarge)
	ErrInternal        = NewError("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
)

// Error is an application error carrying a stable code and the HTTP status it maps to.
type Error struct {
	Code    string
	Message string
	Status  int
	Cause   error
}

func NewError(code, message string, status int) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Code so copies produced by the With* helpers still match their sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

func (e *Error) WithCause(cause error) *Error {
	err := *e
	err.Cause = cause
	return &err
}

func (e *Error) WithMessage(message string) *Error {
	err := *e
	err.Message = message
	return &err
}

func (e *Error) WithMessagef(format string, args ...interface{}) *Error {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// IsValidation reports whether err is a client-side (4xx) application error.
func IsValidation(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status >= http.StatusBadRequest && appErr.Status < http.StatusInternalServerError
	}
	return false
}

func ToHTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// ToMessage returns the client-facing message for err. Causes are never included.
func ToMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ErrInternal.Message
}

func ToCode(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal.Code
}
