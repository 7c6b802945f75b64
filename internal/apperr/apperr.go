// Package apperr defines the machine-readable error codes the API returns.
// Handlers translate these into {"error_code": ..., "message": ...} bodies.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(status int, code, format string, args ...interface{}) *Error {
	return &Error{Status: status, Code: code, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(code, format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, code, format, args...)
}

func NotFound(code, format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, code, format, args...)
}

func Conflict(code, format string, args ...interface{}) *Error {
	return New(http.StatusConflict, code, format, args...)
}

// BusinessRule errors come out of the voucher validation endpoint; the same
// condition is silently skipped during checkout pricing.
func BusinessRule(code, format string, args ...interface{}) *Error {
	return New(http.StatusUnprocessableEntity, code, format, args...)
}

// From unwraps err into an *Error, defaulting to a 500 with a generic code so
// internal details never leak to the client.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: "Something went wrong"}
}
