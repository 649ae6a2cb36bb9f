package fsm

import (
	"slices"

	"github.com/prometheus/client_golang/prometheus"
)

// Match says which binding resolved a (state, symbol) pair.
type Match int

const (
	// MatchNone means neither an exact nor a wildcard binding exists.
	MatchNone Match = iota
	// MatchExact means the symbol was bound explicitly for the state.
	MatchExact
	// MatchAny means the state's wildcard binding was used.
	MatchAny
)

func (m Match) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchAny:
		return "any"
	case MatchNone:
		return "none"
	default:
		return "unknown"
	}
}

type transitionKey[S State] struct {
	state  S
	symbol rune
}

type counterKey[S State] struct {
	from  S
	to    S
	match Match
}

type transition[S State, C any] struct {
	action Action[S, C]
	target Target[S]
}

// Machine is a table-driven state machine over runes. C is the type of the
// context value handed to every action. A Machine is not safe for concurrent
// use.
type Machine[S State, C any] struct {
	name     string
	initial  S
	current  S
	symbol   rune
	exact    map[transitionKey[S]]transition[S, C]
	wildcard map[S]transition[S, C]
	fallback Action[S, C]
	states   []S
	logger   Logger
	counters map[counterKey[S]]prometheus.Counter
}

// NewMachine creates a machine positioned at initial with an empty table and
// no default action.
func NewMachine[S State, C any](name string, initial S) *Machine[S, C] {
	m := &Machine[S, C]{
		name:     name,
		initial:  initial,
		current:  initial,
		exact:    make(map[transitionKey[S]]transition[S, C]),
		wildcard: make(map[S]transition[S, C]),
		counters: make(map[counterKey[S]]prometheus.Counter),
	}

	m.remember(initial)

	return m
}

// Name returns the machine name used in metrics, logs and diagnostics.
func (m *Machine[S, C]) Name() string {
	return m.name
}

// CurrentState returns the state the machine is in.
func (m *Machine[S, C]) CurrentState() S {
	return m.current
}

// InputSymbol returns the symbol passed to the most recent Process call.
func (m *Machine[S, C]) InputSymbol() rune {
	return m.symbol
}

// SetLogger installs transition logging hooks. A nil logger disables them.
func (m *Machine[S, C]) SetLogger(logger Logger) {
	m.logger = logger
}

// BindDefault registers the action invoked when no exact or wildcard
// transition matches. The action decides what happens; the machine does not
// change state afterwards.
func (m *Machine[S, C]) BindDefault(action Action[S, C]) {
	m.fallback = action
}

// Bind registers a transition for one symbol in from. A nil action is allowed
// and means the symbol is consumed silently. Rebinding replaces the previous
// transition.
func (m *Machine[S, C]) Bind(symbol rune, from S, action Action[S, C], to Target[S]) {
	m.remember(from)
	m.rememberTarget(to)

	m.exact[transitionKey[S]{state: from, symbol: symbol}] = transition[S, C]{
		action: action,
		target: to,
	}
}

// BindSet registers the same transition for every rune of symbols.
func (m *Machine[S, C]) BindSet(symbols string, from S, action Action[S, C], to Target[S]) {
	for _, symbol := range symbols {
		m.Bind(symbol, from, action, to)
	}
}

// BindAny registers the catch-all transition for from, used for any symbol
// without an exact binding.
func (m *Machine[S, C]) BindAny(from S, action Action[S, C], to Target[S]) {
	m.remember(from)
	m.rememberTarget(to)

	m.wildcard[from] = transition[S, C]{
		action: action,
		target: to,
	}
}

// Resolve reports where symbol would take the machine from state without
// running any action.
func (m *Machine[S, C]) Resolve(state S, symbol rune) (Target[S], Match) {
	tr, match := m.lookup(state, symbol)

	return tr.target, match
}

// Process advances the machine by one symbol. Exact bindings win over the
// state's wildcard binding, which wins over the default action. When nothing
// matches and no default action is bound, an *UnhandledTransitionError is
// returned. An error from a transition action is returned as *ActionError and
// the state is left unchanged.
func (m *Machine[S, C]) Process(c C, symbol rune) error {
	m.symbol = symbol

	from := m.current
	step := Step[S]{State: from, Symbol: symbol}

	tr, match := m.lookup(from, symbol)
	if match == MatchNone {
		unhandledTransitionsTotal.WithLabelValues(m.name, from.String()).Inc()

		if m.logger != nil {
			m.logger.TransitionUnhandled(m.name, from.String(), symbol)
		}

		if m.fallback == nil {
			return m.Unhandled(symbol)
		}

		return m.fallback.Execute(c, step)
	}

	if tr.action != nil {
		err := tr.action.Execute(c, step)
		if err != nil {
			actionErrorsTotal.WithLabelValues(m.name, from.String(), tr.action.Name()).Inc()

			return &ActionError{
				State:  from.String(),
				Symbol: symbol,
				Action: tr.action.Name(),
				Err:    err,
			}
		}
	}

	m.current = tr.target.resolve(from)

	m.countTransition(from, m.current, match)

	if m.logger != nil {
		m.logger.TransitionExecuted(m.name, from.String(), symbol, m.current.String(), match)
	}

	return nil
}

// Unhandled builds the diagnostic error for symbol arriving in the current
// state, including a snapshot of the whole table.
func (m *Machine[S, C]) Unhandled(symbol rune) *UnhandledTransitionError {
	return &UnhandledTransitionError{
		Machine: m.name,
		State:   m.current.String(),
		Symbol:  symbol,
		Table:   m.Snapshot(),
	}
}

// countTransition increments the transition counter, resolving the labelled
// child once per (from, to, match).
func (m *Machine[S, C]) countTransition(from, to S, match Match) {
	key := counterKey[S]{from: from, to: to, match: match}

	counter, ok := m.counters[key]
	if !ok {
		counter = transitionsTotal.WithLabelValues(m.name, from.String(), to.String(), match.String())
		m.counters[key] = counter
	}

	counter.Inc()
}

func (m *Machine[S, C]) lookup(state S, symbol rune) (transition[S, C], Match) {
	if tr, ok := m.exact[transitionKey[S]{state: state, symbol: symbol}]; ok {
		return tr, MatchExact
	}

	if tr, ok := m.wildcard[state]; ok {
		return tr, MatchAny
	}

	return transition[S, C]{}, MatchNone
}

// remember keeps states in first-seen order so snapshots read like the code
// that built the table.
func (m *Machine[S, C]) remember(s S) {
	if !slices.Contains(m.states, s) {
		m.states = append(m.states, s)
	}
}

func (m *Machine[S, C]) rememberTarget(t Target[S]) {
	if s, ok := t.State(); ok {
		m.remember(s)
	}
}
