package scopes

import "fmt"

type outcomeKind int

const (
	kindSuccess outcomeKind = iota
	kindFailure
	kindInterrupted
)

// Outcome is the tri-state conclusion of a computation or scope closure.
// It is produced when a scope closes and consumed by finalizers that need
// to branch cleanup behavior on how the owning computation ended.
type Outcome struct {
	kind  outcomeKind
	value any
	err   error
}

// Success returns an Outcome for a computation that completed normally.
func Success(value any) Outcome {
	return Outcome{kind: kindSuccess, value: value}
}

// Failure returns an Outcome for a computation that ended with err.
func Failure(err error) Outcome {
	return Outcome{kind: kindFailure, err: err}
}

// Interrupted returns an Outcome for a computation cut short by
// cancellation. The cause (usually ctx.Err()) is carried along.
func Interrupted(err error) Outcome {
	return Outcome{kind: kindInterrupted, err: err}
}

// Succeeded reports whether the outcome is a Success.
func (o Outcome) Succeeded() bool { return o.kind == kindSuccess }

// Failed reports whether the outcome is a Failure.
func (o Outcome) Failed() bool { return o.kind == kindFailure }

// WasInterrupted reports whether the outcome is an Interrupted.
func (o Outcome) WasInterrupted() bool { return o.kind == kindInterrupted }

// Value returns the success value, or nil for Failure/Interrupted outcomes.
func (o Outcome) Value() any { return o.value }

// Err returns the failure or interruption cause, or nil for Success.
func (o Outcome) Err() error { return o.err }

func (o Outcome) String() string {
	switch o.kind {
	case kindSuccess:
		return fmt.Sprintf("Success(%v)", o.value)
	case kindFailure:
		return fmt.Sprintf("Failure(%v)", o.err)
	case kindInterrupted:
		return fmt.Sprintf("Interrupted(%v)", o.err)
	default:
		panic("exhaustive match")
	}
}
