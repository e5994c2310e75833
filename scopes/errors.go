package scopes

import (
	"errors"
	"fmt"
)

// ErrScopeClosed is returned when a finalizer registration reaches a scope
// that has already left the Open state.
var ErrScopeClosed = errors.New("scope already closed")

// ErrNoScope is returned when an operation requiring an ambient scope runs
// under a context that carries none.
var ErrNoScope = errors.New("no scope in context")

// FinalizerError aggregates every error raised by finalizers during a
// single scope closure. The individual failures are combined under Err and
// remain reachable through errors.Is/As and multierr.Errors.
type FinalizerError struct {
	ScopeId string
	Err     error
}

func (e *FinalizerError) Error() string {
	return fmt.Sprintf("finalizer failures in scope %s: %v", e.ScopeId, e.Err)
}

func (e *FinalizerError) Unwrap() error { return e.Err }

// PanicError wraps a value recovered from a panicking finalizer or scoped
// block so it can travel as a regular error.
type PanicError struct {
	Recovered any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("recovered from panic: %v", e.Recovered)
}
