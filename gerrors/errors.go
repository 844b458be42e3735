// Package gerrors holds the errors returned by GraysQL. Every error message
// starts with "GraysQL Error" so callers can tell where a failure came from.
package gerrors

import (
	"errors"
	"fmt"
)

// Prefix starts every GraysQL error message.
const Prefix = "GraysQL Error"

// Code classifies an error.
type Code string

const (
	// Configuration is used for bad constructor, extension or definition input.
	Configuration Code = "ConfigurationError"
	// Type is used when an argument has the wrong kind, e.g. a nil function.
	Type Code = "TypeError"
	// Conflict is used when a name is registered twice without overwrite.
	Conflict Code = "ConflictError"
	// Reference is used when a definition names an unknown type or interface.
	Reference Code = "ReferenceError"
	// Unknown is used for errors that did not originate in GraysQL.
	Unknown Code = "Unknown"
)

// Extensions carries machine readable details of an error.
type Extensions struct {
	Code Code `json:"code"`
}

// Error is the error type returned by every GraysQL package.
type Error struct {
	Message    string     `json:"message"`
	Extensions Extensions `json:"extensions"`
	Paths      []string   `json:"paths"`

	err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", Prefix, e.Message)
}

// Unwrap returns the wrapped error, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the error classification.
func (e *Error) Code() Code {
	return e.Extensions.Code
}

// New returns an error with the given code and formatted message.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{
		Message:    fmt.Sprintf(format, args...),
		Extensions: Extensions{Code: code},
		Paths:      []string{},
	}
}

// Wrap returns an error with the given code wrapping err. The message of err is
// appended after the formatted message.
func Wrap(err error, code Code, format string, args ...interface{}) *Error {
	msg := err.Error()
	if ge, ok := err.(*Error); ok {
		msg = ge.Message
	}

	e := New(code, format, args...)
	e.Message = fmt.Sprintf("%s: %s", e.Message, msg)
	e.err = err
	return e
}

// WithPath returns a copy of e with path appended to its paths.
func (e *Error) WithPath(path ...string) *Error {
	c := *e
	c.Paths = append(append([]string{}, e.Paths...), path...)
	return &c
}

// HasCode reports whether err is, or wraps, a GraysQL error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Extensions.Code == code
}

// ConvertError converts any error into an *Error, keeping GraysQL errors as is.
func ConvertError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{
		Message:    err.Error(),
		Extensions: Extensions{Code: Unknown},
		Paths:      []string{},
		err:        err,
	}
}
