// Package validator checks transition tables for gaps before they are hit at
// runtime.
package validator

import (
	"fmt"
	"strings"

	"github.com/amp-labs/pretty/fsm"
)

// ValidationResult contains the results of validating a table.
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// ValidationError represents a table defect that can halt a run.
type ValidationError struct {
	Code    string   // Error code like "MISSING_TRANSITION"
	Message string   // Human-readable error message
	State   string   // State the error is about
	Symbols []string // Offending symbols, if any
}

// ValidationWarning represents a non-critical issue.
type ValidationWarning struct {
	Code    string
	Message string
	State   string
}

// PrintableASCII is the alphabet used by default: every printable ASCII
// character plus tab and newline.
func PrintableASCII() []rune {
	alphabet := []rune{'\t', '\n'}

	for r := rune(0x20); r < 0x7f; r++ {
		alphabet = append(alphabet, r)
	}

	return alphabet
}

// Validate runs the default rules over the printable ASCII alphabet.
func Validate(snap fsm.Snapshot) ValidationResult {
	return ValidateWithRules(snap, PrintableASCII(), DefaultRules())
}

// ValidateAlphabet runs the default rules over a custom alphabet.
func ValidateAlphabet(snap fsm.Snapshot, alphabet []rune) ValidationResult {
	return ValidateWithRules(snap, alphabet, DefaultRules())
}

// ValidateWithRules runs rules over snap. Warnings never make a result
// invalid.
func ValidateWithRules(snap fsm.Snapshot, alphabet []rune, rules []Rule) ValidationResult {
	result := ValidationResult{Valid: true}

	for _, rule := range rules {
		ruleResult := rule.Check(snap, alphabet)

		result.Errors = append(result.Errors, ruleResult.Errors...)
		result.Warnings = append(result.Warnings, ruleResult.Warnings...)
	}

	result.Valid = len(result.Errors) == 0

	return result
}

// HasErrors reports whether validation found blocking issues.
func (r ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Format returns a human-readable report.
func (r ValidationResult) Format() string {
	var sb strings.Builder

	if r.Valid {
		sb.WriteString("✓ table is valid\n")
	} else {
		fmt.Fprintf(&sb, "✗ table has %d error(s)\n", len(r.Errors))
	}

	for _, e := range r.Errors {
		fmt.Fprintf(&sb, "  ERROR [%s] %s\n", e.Code, e.Message)
	}

	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "  WARN  [%s] %s\n", w.Code, w.Message)
	}

	return sb.String()
}
