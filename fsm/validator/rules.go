package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amp-labs/pretty/fsm"
)

// RuleResult contains both errors and warnings from a rule check.
type RuleResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// Rule defines a check over a table snapshot and the alphabet it must accept.
type Rule interface {
	Name() string
	Check(snap fsm.Snapshot, alphabet []rune) RuleResult
}

// DefaultRules returns the standard set of validation rules.
func DefaultRules() []Rule {
	return []Rule{
		&missingTransitionRule{},
		&unreachableStateRule{},
		&danglingTargetRule{},
		&missingDefaultRule{},
	}
}

// missingTransitionRule reports (state, symbol) pairs that would fall through
// to the default action.
type missingTransitionRule struct{}

func (r *missingTransitionRule) Name() string {
	return "missing_transition"
}

func (r *missingTransitionRule) Check(snap fsm.Snapshot, alphabet []rune) RuleResult {
	var result RuleResult

	for _, state := range snap.States() {
		var missing []string

		for _, symbol := range alphabet {
			if _, match := snap.Resolve(state, symbol); match == fsm.MatchNone {
				missing = append(missing, strconv.QuoteRune(symbol))
			}
		}

		if len(missing) == 0 {
			continue
		}

		result.Errors = append(result.Errors, ValidationError{
			Code: "MISSING_TRANSITION",
			Message: fmt.Sprintf("State '%s' has no transition for %d symbol(s): %s",
				state, len(missing), strings.Join(missing, " ")),
			State:   state,
			Symbols: missing,
		})
	}

	return result
}

// unreachableStateRule warns about states no transition leads to.
type unreachableStateRule struct{}

func (r *unreachableStateRule) Name() string {
	return "unreachable_state"
}

func (r *unreachableStateRule) Check(snap fsm.Snapshot, _ []rune) RuleResult {
	var result RuleResult

	reachable := map[string]bool{snap.Initial: true}
	queue := []string{snap.Initial}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, entry := range snap.Transitions {
			if entry.From != current {
				continue
			}

			next := entry.Next()
			if !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}

	for _, state := range snap.States() {
		if !reachable[state] {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Code:    "UNREACHABLE_STATE",
				Message: fmt.Sprintf("State '%s' is not reachable from initial state '%s'", state, snap.Initial),
				State:   state,
			})
		}
	}

	return result
}

// danglingTargetRule warns about states that are only ever targets and
// have no transitions of their own.
type danglingTargetRule struct{}

func (r *danglingTargetRule) Name() string {
	return "dangling_target"
}

func (r *danglingTargetRule) Check(snap fsm.Snapshot, _ []rune) RuleResult {
	var result RuleResult

	bound := make(map[string]bool)
	for _, entry := range snap.Transitions {
		bound[entry.From] = true
	}

	for _, state := range snap.States() {
		if !bound[state] {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Code:    "DANGLING_TARGET",
				Message: fmt.Sprintf("State '%s' has no transitions of its own", state),
				State:   state,
			})
		}
	}

	return result
}

// missingDefaultRule warns when nothing handles unmodeled input.
type missingDefaultRule struct{}

func (r *missingDefaultRule) Name() string {
	return "missing_default"
}

func (r *missingDefaultRule) Check(snap fsm.Snapshot, _ []rune) RuleResult {
	var result RuleResult

	if snap.Default == "" {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Code:    "MISSING_DEFAULT",
			Message: fmt.Sprintf("Table '%s' has no default action; unmodeled input returns a bare error", snap.Name),
		})
	}

	return result
}
