// Package errors is the error helper used across fairdice. Errors created here
// carry a stack trace so failures surfaced by the CLI can be traced back to the
// operation that produced them.
package errors

import (
	stderrors "errors"

	goerrors "github.com/go-errors/errors"
	pkgerrors "github.com/pkg/errors"
)

// New returns an error with the given message and the current stack.
func New(msg string) error {
	return goerrors.Wrap(stderrors.New(msg), 1)
}

// Errorf formats according to a format specifier. %w is supported.
func Errorf(format string, args ...interface{}) error {
	return goerrors.Errorf(format, args...)
}

// Wrap annotates err with msg. It returns nil if err is nil.
func Wrap(err error, msg string) error {
	return pkgerrors.Wrap(err, msg)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// Stack returns the formatted stack of err if it carries one.
func Stack(err error) string {
	var e *goerrors.Error
	if stderrors.As(err, &e) {
		return string(e.Stack())
	}
	return ""
}

// Recover converts a panic into an error and hands it to onPanic.
// Intended to be deferred at the top of main.
func Recover(onPanic func(err error)) {
	if r := recover(); r != nil {
		onPanic(goerrors.Wrap(r, 2))
	}
}
