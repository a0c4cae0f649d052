package mcp

import (
	"errors"
	"fmt"
)

// InvalidArgumentError means the caller broke the request contract: a
// missing or ill-typed argument, a bad identifier or URI, an unknown tool.
// It is surfaced to the transport as a request rejection, never as a tool
// result.
type InvalidArgumentError struct {
	Message string

	// Field and Value name the offending argument for the log
	Field string
	Value string
}

func (e *InvalidArgumentError) Error() string { return e.Message }

// InvalidArgument marks the error for the transport
func (e *InvalidArgumentError) InvalidArgument() bool { return true }

func invalidArgument(field, value, format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{
		Message: fmt.Sprintf(format, args...),
		Field:   field,
		Value:   value,
	}
}

// IsInvalidArgument reports whether err is a protocol-level rejection
func IsInvalidArgument(err error) bool {
	var e *InvalidArgumentError
	return errors.As(err, &e)
}

// ExecutionError is a failure while talking to the database. Tool calls
// turn it into an error-flagged result.
type ExecutionError struct {
	Message string
	Err     error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExecutionError) Unwrap() error { return e.Err }
