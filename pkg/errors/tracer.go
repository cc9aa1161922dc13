package errors

import "github.com/pkg/errors"

// ErrorTracer pairs an ErrorCode with the underlying cause, keeping the
// cause's stack trace so the logger can surface it.
type ErrorTracer struct {
	Code ErrorCode
	Err  error
}

// NewTracer creates an ErrorTracer carrying the given code.
func NewTracer(code ErrorCode) *ErrorTracer {
	return &ErrorTracer{
		Code: code,
	}
}

// StackTracer is an interface that requires a StackTrace method.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

func (e *ErrorTracer) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Err.Error()
}

func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// Wrap attaches the underlying cause, adding a stack trace when the cause
// does not already carry one.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	e.Err = err
	_, ok := err.(StackTracer)
	if !ok {
		e.Err = errors.WithStack(err)
	}

	return e
}

// StackTrace returns the stack trace of the underlying cause if it has one.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	errWithStack, ok := e.Err.(StackTracer)
	if ok {
		return errWithStack.StackTrace()
	}
	return nil
}
