// Package errcode provides layered error codes for the calcul application.
// Error code format: MMBBBB (MM = module code, BBBB = business code)
package errcode

import (
	"errors"
	"fmt"
)

// Process exit codes used by LayeredError.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// LayeredError hierarchical error code
// Carries a message key, context data, an original cause and the process exit code
// the CLI should terminate with when this error reaches the top level.
type LayeredError struct {
	module   string                 // Module name (container, dao, config)
	code     int                    // Complete error code (MMBBBB, e.g., 100001)
	msgKey   string                 // Message key, e.g. "error.container.unbound"
	msg      string                 // Default message
	exitCode int                    // Process exit code
	data     map[string]interface{} // context data
	cause    error                  // Original error (error chain)
}

// New creates a layered error.
// moduleCode: module code (10-99)
// businessCode: business code (0001-9999)
// exitCode: optional process exit code, ExitFailure when omitted
func New(moduleCode, businessCode int, module, msgKey, msg string, exitCode ...int) *LayeredError {
	status := ExitFailure
	if len(exitCode) > 0 {
		status = exitCode[0]
	}
	return &LayeredError{
		module:   module,
		code:     moduleCode*10000 + businessCode,
		msgKey:   msgKey,
		msg:      msg,
		exitCode: status,
		data:     make(map[string]interface{}),
	}
}

// Error implements error
func (e *LayeredError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Code gets error code
func (e *LayeredError) Code() int {
	return e.code
}

// Module gets module name
func (e *LayeredError) Module() string {
	return e.module
}

// MsgKey retrieves the message key
func (e *LayeredError) MsgKey() string {
	return e.msgKey
}

// Message returns the message without the cause
func (e *LayeredError) Message() string {
	return e.msg
}

// ExitCode returns the process exit code
func (e *LayeredError) ExitCode() int {
	return e.exitCode
}

// Data returns context data
func (e *LayeredError) Data() map[string]interface{} {
	return e.data
}

// Cause gets original error
func (e *LayeredError) Cause() error {
	return e.cause
}

// Unwrap supports errors.Is / errors.As chains
func (e *LayeredError) Unwrap() error {
	return e.cause
}

// WithMsg replaces the message (returns a new instance)
func (e *LayeredError) WithMsg(msg string) *LayeredError {
	clone := *e
	clone.msg = msg
	return &clone
}

// WithMsgf formats a replacement message (returns a new instance)
func (e *LayeredError) WithMsgf(format string, args ...interface{}) *LayeredError {
	clone := *e
	clone.msg = fmt.Sprintf(format, args...)
	return &clone
}

// WithData adds a single context value (returns a new instance)
func (e *LayeredError) WithData(key string, value interface{}) *LayeredError {
	clone := *e
	clone.data = e.cloneData()
	clone.data[key] = value
	return &clone
}

// WithFields adds context values in batch (returns a new instance)
func (e *LayeredError) WithFields(fields map[string]interface{}) *LayeredError {
	clone := *e
	clone.data = e.cloneData()
	for k, v := range fields {
		clone.data[k] = v
	}
	return &clone
}

// WithExitCode overrides the process exit code (returns a new instance)
func (e *LayeredError) WithExitCode(code int) *LayeredError {
	clone := *e
	clone.exitCode = code
	return &clone
}

// Wrap wraps the original error (returns a new instance)
func (e *LayeredError) Wrap(cause error) *LayeredError {
	if cause == nil {
		return e
	}
	clone := *e
	clone.cause = cause
	return &clone
}

// Wrapf wraps the original error and formats the message (returns a new instance)
func (e *LayeredError) Wrapf(cause error, format string, args ...interface{}) *LayeredError {
	if cause == nil {
		return e.WithMsgf(format, args...)
	}
	clone := *e
	clone.cause = cause
	clone.msg = fmt.Sprintf(format, args...)
	return &clone
}

// Is compares by code so that derived instances match their definition
func (e *LayeredError) Is(target error) bool {
	t, ok := target.(*LayeredError)
	if !ok {
		return false
	}
	return e.code == t.code
}

func (e *LayeredError) cloneData() map[string]interface{} {
	data := make(map[string]interface{}, len(e.data))
	for k, v := range e.data {
		data[k] = v
	}
	return data
}

// String is the debug representation
func (e *LayeredError) String() string {
	if e.cause != nil {
		return fmt.Sprintf("LayeredError{code:%d, module:%s, msg:%s, cause:%v}",
			e.code, e.module, e.msg, e.cause)
	}
	return fmt.Sprintf("LayeredError{code:%d, module:%s, msg:%s}",
		e.code, e.module, e.msg)
}

// ExitCode maps any error to a process exit code.
// nil -> ExitOK; the outermost LayeredError in the chain decides; anything else -> ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var le *LayeredError
	if errors.As(err, &le) {
		return le.exitCode
	}
	return ExitFailure
}
