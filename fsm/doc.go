// Package fsm provides a small table-driven finite-state machine.
//
// A Machine maps (state, symbol) pairs to an action and a target state. Lookup
// falls back from an exact symbol binding to a per-state wildcard binding and
// finally to a single default action, which is the only place an unmodeled
// input surfaces. Actions receive the caller's context value explicitly and a
// Step describing the state and symbol being processed.
package fsm
