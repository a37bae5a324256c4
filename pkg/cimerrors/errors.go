// Package cimerrors provides coded errors for repository operations.
//
// Codes mirror the DSP0200 status code set so a connection facade can
// translate them to wire status without inspecting error text. Stores and
// services return these (optionally wrapped) so callers can branch on the
// code rather than the message.
package cimerrors

import (
	"errors"
	"fmt"
)

// Code identifies the kind of failure.
type Code int

const (
	CodeFailed             Code = 1
	CodeInvalidNamespace   Code = 3
	CodeInvalidParameter   Code = 4
	CodeInvalidClass       Code = 5
	CodeNotFound           Code = 6
	CodeNotSupported       Code = 7
	CodeClassHasChildren   Code = 8
	CodeClassHasInstances  Code = 9
	CodeInvalidSuperclass  Code = 10
	CodeAlreadyExists      Code = 11
	CodeNoSuchProperty     Code = 12
	CodeTypeMismatch       Code = 13
	CodeMethodNotAvailable Code = 16
	CodeNamespaceNotEmpty  Code = 20
)

var codeNames = map[Code]string{
	CodeFailed:             "CIM_ERR_FAILED",
	CodeInvalidNamespace:   "CIM_ERR_INVALID_NAMESPACE",
	CodeInvalidParameter:   "CIM_ERR_INVALID_PARAMETER",
	CodeInvalidClass:       "CIM_ERR_INVALID_CLASS",
	CodeNotFound:           "CIM_ERR_NOT_FOUND",
	CodeNotSupported:       "CIM_ERR_NOT_SUPPORTED",
	CodeClassHasChildren:   "CIM_ERR_CLASS_HAS_CHILDREN",
	CodeClassHasInstances:  "CIM_ERR_CLASS_HAS_INSTANCES",
	CodeInvalidSuperclass:  "CIM_ERR_INVALID_SUPERCLASS",
	CodeAlreadyExists:      "CIM_ERR_ALREADY_EXISTS",
	CodeNoSuchProperty:     "CIM_ERR_NO_SUCH_PROPERTY",
	CodeTypeMismatch:       "CIM_ERR_TYPE_MISMATCH",
	CodeMethodNotAvailable: "CIM_ERR_METHOD_NOT_AVAILABLE",
	CodeNamespaceNotEmpty:  "CIM_ERR_NAMESPACE_NOT_EMPTY",
}

// String returns the DSP0200 symbolic name for the code.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CIM_ERR_%d", int(c))
}

// Error is a coded repository error.
type Error struct {
	StatusCode Code
	Message    string
	wrapped    error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.StatusCode.String()
	}
	return fmt.Sprintf("%s: %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// Is lets errors.Is match two coded errors by status code.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.StatusCode == e.StatusCode
	}
	return false
}

// New builds a coded error with a formatted message.
func New(code Code, format string, args ...any) error {
	return &Error{StatusCode: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to an underlying error, keeping it unwrappable.
func Wrap(code Code, err error, format string, args ...any) error {
	return &Error{StatusCode: code, Message: fmt.Sprintf(format, args...), wrapped: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.StatusCode == code
	}
	return false
}

// CodeOf extracts the status code from an error chain. Errors without a code
// report CodeFailed.
func CodeOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return CodeFailed
}
