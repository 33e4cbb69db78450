// Package errors wraps github.com/pkg/errors to give the ambient
// collaborators (Redis, Kafka publish, snapshot marshaling) a stack trace
// that pkg/logger can pull out of the error and attach to a log line.
package errors

import "github.com/pkg/errors"

// StackTracer is implemented by errors carrying a stack trace, notably
// the ones github.com/pkg/errors produces.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// ErrorTracer pairs a short message with an underlying error, capturing a
// stack trace the first time an error without one is wrapped.
type ErrorTracer struct {
	Message string
	Err     error
}

// NewTracer starts an ErrorTracer with message and no wrapped error yet.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{Message: message}
}

// TracerFromError wraps err directly, keeping its stack trace as-is.
func TracerFromError(err error) *ErrorTracer {
	return NewTracer(err.Error()).Wrap(err)
}

// Wrap attaches err to e, adding a stack trace if err doesn't already
// carry one.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	e.Err = withStackTrace(err)
	return e
}

func withStackTrace(err error) error {
	if _, ok := err.(StackTracer); ok {
		return err
	}
	return errors.WithStack(err)
}

func (e *ErrorTracer) Error() string {
	return e.Message
}

func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// StackTrace returns the wrapped error's stack trace, or nil if it has none.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	if errWithStack, ok := e.Unwrap().(StackTracer); ok {
		return errWithStack.StackTrace()
	}
	return nil
}
