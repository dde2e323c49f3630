// Package errors provides comprehensive error handling utilities for churngrid.
//
// This file converts panics into structured errors. Gonum operations panic
// on shape mismatches and singular matrices, and a panic inside one fold
// fit must void that fold instead of tearing down the whole grid search.

package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError is the error form of a recovered panic. The stack is captured
// at recovery time, so it points at the panicking call site.
type PanicError struct {
	// PanicValue is the original value passed to panic()
	PanicValue interface{}

	// StackTrace contains the stack trace at the time of panic
	StackTrace string

	// Operation identifies where the panic was recovered, for example
	// "fold 3" or "Pipeline.Fit"
	Operation string
}

// Error implements the error interface for PanicError.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap returns nil. A recovered panic has no underlying error chain.
func (e *PanicError) Unwrap() error {
	return nil
}

// String renders the error together with its captured stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError creates a PanicError for operation, capturing the current stack.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover converts an in-flight panic into an error on the named return.
// Deferred at the top of any function whose callees may panic:
//
//	func (g *GridSearchCV) scoreFold(...) (fs foldScore, err error) {
//	    defer errors.Recover(&err, fmt.Sprintf("fold %d", foldIdx))
//	    ...
//	}
//
// When the function already set an error before panicking, the panic
// wraps it so both survive in the chain and errors.Is still finds the
// original.
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		if *err != nil {
			*err = Wrapf(*err, "panic in %s (original error): %v", operation, r)
			return
		}
		*err = NewPanicError(operation, r)
	}
}

// SafeExecute runs fn and returns its error, converting a panic into a
// PanicError. It is the closure form of Recover for one-shot calls.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
