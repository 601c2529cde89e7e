package errs

import (
	"fmt"
	"sort"
	"strings"
)

// Error carries a message, optional key/value arguments and a wrapped cause.
type Error struct {
	message string
	args    map[string]any
	wrapped error
}

// New creates a new Error with the given message.
func New(message string) *Error {
	return &Error{
		message: message,
		args:    make(map[string]any),
	}
}

// Arg attaches a key/value argument to the error.
func (e *Error) Arg(key string, value any) *Error {
	e.args[key] = value
	return e
}

// Wrap records err as the cause. Wrapping nil is a no-op.
func (e *Error) Wrap(err error) *Error {
	if err != nil {
		e.wrapped = err
	}
	return e
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// Error implements the error interface. Arguments are rendered in sorted
// key order so the output is stable.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.message)

	if len(e.args) > 0 {
		keys := make([]string, 0, len(e.args))
		for k := range e.args {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf(" %s=%v", k, e.args[k]))
		}
	}

	if e.wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.wrapped.Error())
	}

	return b.String()
}
