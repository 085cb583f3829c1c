package apierr

import (
	"errors"
	"fmt"
)

// Error codes surfaced by the engine. Handlers map these onto the JSON
// error envelope; raw transport errors never reach callers.
const (
	CodeValidationFailed = "validation_failed"
	CodeAgentUnavailable = "agent_unavailable"
	CodeAgentRejected    = "agent_rejected"
	CodeDispatchFailed   = "dispatch_failed"
	CodeInternal         = "internal_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Code extracts the taxonomy code from err, or CodeInternal when err is
// not an *Error.
func Code(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given taxonomy code.
func Is(err error, code string) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
