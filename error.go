package ebook2pdf

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"

	// Session acquisition failures.
	ETIMEOUT   = "timeout"
	EMARKUP    = "markup"
	EPAGECOUNT = "page_count"

	// Document assembly failures.
	EASSEMBLY = "assembly"
)

// Error represents an application-specific error. Code is machine-readable,
// Message is meant for operators and may reference remote markup. Neither is
// shown to end users.
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ebook2pdf error: code=%s message=%s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("ebook2pdf error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError returns an Error with the given code and message wrapping err.
func WrapError(code string, err error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// IsSessionError reports whether err is one of the session acquisition
// failures: a timed-out wait, a missing marker element or an unparsable
// page count.
func IsSessionError(err error) bool {
	switch ErrorCode(err) {
	case ETIMEOUT, EMARKUP, EPAGECOUNT:
		return true
	}
	return false
}
