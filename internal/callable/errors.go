package callable

import (
	"net/http"
	"strings"
)

// Code is the error code sent back to callable clients.
type Code string

const (
	CodeInvalidArgument Code = "invalid-argument"
	CodeUnauthenticated Code = "unauthenticated"
	CodeNotFound        Code = "not-found"
	CodeInternal        Code = "internal"
)

func (c Code) httpStatus() int {
	switch c {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// wireStatus renders the code the way clients expect it, e.g. INVALID_ARGUMENT.
func (c Code) wireStatus() string {
	return strings.ToUpper(strings.ReplaceAll(string(c), "-", "_"))
}

// Error is a structured failure that is safe to show to the caller.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError keeps cause for logging; the caller only ever sees Message.
func WrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.cause.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
