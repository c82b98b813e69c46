package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// AuthMessage is the only reason ever given for a refused admin request.
const AuthMessage = "invalid session"

// Validation reports bad input shape. Nothing is persisted.
func Validation(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusBadRequest}
}

// Verification reports a rejected or unreachable captcha. Nothing is persisted.
func Verification(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusForbidden}
}

// Auth reports a missing, bad or expired session or password.
func Auth() error {
	return &ErrorWithStatusCode{Message: AuthMessage, StatusCode: http.StatusUnauthorized}
}

func NotFound(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusNotFound}
}

// Persistence reports a store write that could not be committed.
func Persistence(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusInternalServerError}
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// AsStatus finds the first ErrorWithStatusCode in err's chain.
func AsStatus(err error) (*ErrorWithStatusCode, bool) {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusCode returns the status carried by err, or 500 when it carries none.
func StatusCode(err error) int {
	if e, ok := AsStatus(err); ok {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// UploadError describes one file that could not be stored. It is logged, never returned to callers.
type UploadError struct {
	Filename string
	Key      string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %q as %q: %v", e.Filename, e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
