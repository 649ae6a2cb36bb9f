package fsm

import (
	"errors"
	"fmt"
)

// ErrUnhandledTransition is matched by every *UnhandledTransitionError.
var ErrUnhandledTransition = errors.New("unhandled transition")

// UnhandledTransitionError reports a (state, symbol) pair with no exact
// binding, no wildcard binding for the state and, possibly, no default action.
// It carries the table so the gap can be diagnosed from the error alone.
type UnhandledTransitionError struct {
	Machine string
	State   string
	Symbol  rune
	Table   Snapshot
}

func (e *UnhandledTransitionError) Error() string {
	return fmt.Sprintf("%s: state %s, symbol %q: %v", e.Machine, e.State, e.Symbol, ErrUnhandledTransition)
}

func (e *UnhandledTransitionError) Unwrap() error {
	return ErrUnhandledTransition
}

// ActionError wraps an error returned by a transition action.
type ActionError struct {
	State  string
	Symbol rune
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %s in state %s on %q: %v", e.Action, e.State, e.Symbol, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
