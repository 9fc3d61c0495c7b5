// Package errcodes holds the error taxonomy shared by the fetch source
// and the backend.
package errcodes

import (
	"errors"
	"fmt"
)

// Code classifies errors coming from a bank sync or a backend call.
type Code string

const (
	ExpiredPassword   Code = "EXPIRED_PASSWORD"
	InvalidPassword   Code = "INVALID_PASSWORD"
	InvalidParameters Code = "INVALID_PARAMETERS"
	NoAccounts        Code = "NO_ACCOUNTS"
	NoPassword        Code = "NO_PASSWORD"
	UnknownModule     Code = "UNKNOWN_MODULE"
	Generic           Code = "GENERIC"
)

// ParseCode maps a wire error code to a Code. Unknown codes are Generic.
func ParseCode(s string) Code {
	switch Code(s) {
	case ExpiredPassword, InvalidPassword, InvalidParameters, NoAccounts, NoPassword, UnknownModule:
		return Code(s)
	case "UNKNOWN_WEBOOB_MODULE":
		return UnknownModule
	}
	return Generic
}

// Error is a structured error carrying a code.
type Error struct {
	Code         Code
	Message      string
	ShortMessage string // Optional, suitable for display
	Content      string // Optional details, e.g. the invalid parameters
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates an Error.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// FromError returns the coded error inside err, or wraps err as Generic.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{
		Code:    Generic,
		Message: err.Error(),
	}
}

// CodeOf returns the code of err, Generic for uncoded errors.
func CodeOf(err error) Code {
	if e := FromError(err); e != nil {
		return e.Code
	}
	return ""
}
