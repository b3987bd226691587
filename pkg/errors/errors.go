// Package errors carries machine-readable codes on chartlabels errors.
//
// Every error a user can trigger (a malformed document, an unknown display
// mode, a missing file) is an [*Error] with a [Code]. The CLI prints the
// message, the HTTP server maps the code to a status and returns both:
//
//	err := errors.New(errors.ErrCodeInvalidDisplay, "unknown display mode %q", v)
//	errors.Is(err, errors.ErrCodeInvalidDisplay) // true
//	errors.HTTPStatus(err)                       // 400
//
// Codes survive wrapping with fmt.Errorf("%w") and [Wrap], so callers can
// add context without losing them. The outermost code wins.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidChart   Code = "INVALID_CHART"
	ErrCodeInvalidDataset Code = "INVALID_DATASET"
	ErrCodeInvalidDisplay Code = "INVALID_DISPLAY"
	ErrCodeInvalidAnchor  Code = "INVALID_ANCHOR"
	ErrCodeInvalidAlign   Code = "INVALID_ALIGN"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Cache backends and settle deadlines.
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var statuses = map[Code]int{
	ErrCodeInvalidInput:   http.StatusBadRequest,
	ErrCodeInvalidChart:   http.StatusBadRequest,
	ErrCodeInvalidDataset: http.StatusBadRequest,
	ErrCodeInvalidDisplay: http.StatusBadRequest,
	ErrCodeInvalidAnchor:  http.StatusBadRequest,
	ErrCodeInvalidAlign:   http.StatusBadRequest,
	ErrCodeInvalidFormat:  http.StatusBadRequest,
	ErrCodeInvalidPath:    http.StatusBadRequest,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeFileNotFound:   http.StatusNotFound,
	ErrCodeNetwork:        http.StatusBadGateway,
	ErrCodeTimeout:        http.StatusGatewayTimeout,
	ErrCodeUnsupported:    http.StatusNotImplemented,
}

// Status returns the HTTP status for c. Unknown codes map to 500.
func (c Code) Status() int {
	if s, ok := statuses[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is an error with a code, a message for users, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an error with code and a formatted message that wraps cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost [*Error] in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code and
// cause, or err.Error() for other errors.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err's code to an HTTP status. Uncoded errors map to 500.
func HTTPStatus(err error) int {
	return GetCode(err).Status()
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
