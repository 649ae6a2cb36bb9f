package fsm

import "fmt"

// State is the constraint for machine states. Policies usually define a
// closed integer enumeration with a String method.
type State interface {
	comparable
	fmt.Stringer
}

// Step is the view of the machine an action gets while it executes.
type Step[S State] struct {
	// State is the state the machine was in when Symbol arrived.
	State S
	// Symbol is the character passed to the current Process call.
	Symbol rune
}

// Action is a named unit of work bound to a transition. The context value c is
// owned by the caller of Process and may be mutated by the action; the
// transition table may not.
type Action[S State, C any] interface {
	Name() string
	Execute(c C, step Step[S]) error
}

// funcAction adapts a plain function to Action.
type funcAction[S State, C any] struct {
	name string
	fn   func(c C, step Step[S]) error
}

// NewAction wraps fn as an Action with the given name.
func NewAction[S State, C any](name string, fn func(c C, step Step[S]) error) Action[S, C] { //nolint:ireturn
	return &funcAction[S, C]{name: name, fn: fn}
}

func (a *funcAction[S, C]) Name() string {
	return a.name
}

func (a *funcAction[S, C]) Execute(c C, step Step[S]) error {
	return a.fn(c, step)
}

// Target is the state a transition moves to, or none to stay put.
type Target[S State] struct {
	state S
	stay  bool
}

// To returns a Target that moves the machine to s.
func To[S State](s S) Target[S] {
	return Target[S]{state: s}
}

// Stay returns a Target that leaves the current state unchanged.
func Stay[S State]() Target[S] {
	return Target[S]{stay: true}
}

// IsStay reports whether the target keeps the current state.
func (t Target[S]) IsStay() bool {
	return t.stay
}

// State returns the destination and false when the target is Stay.
func (t Target[S]) State() (S, bool) {
	return t.state, !t.stay
}

// resolve returns the state the machine ends up in when leaving from.
func (t Target[S]) resolve(from S) S {
	if t.stay {
		return from
	}

	return t.state
}

func (t Target[S]) String() string {
	if t.stay {
		return ""
	}

	return t.state.String()
}
