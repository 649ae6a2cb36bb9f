package validator

import (
	"testing"

	"github.com/amp-labs/pretty/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() fsm.Snapshot {
	return fsm.Snapshot{
		Name:    "sample",
		Initial: "a",
		Current: "a",
		Default: "fail",
		Transitions: []fsm.Entry{
			{From: "a", Symbol: "x", To: "b"},
			{From: "a", Any: true},
			{From: "b", Any: true, To: "a"},
		},
	}
}

func TestValidateValid(t *testing.T) {
	t.Parallel()

	result := Validate(sampleSnapshot())

	assert.True(t, result.Valid)
	assert.False(t, result.HasErrors())
	assert.Empty(t, result.Warnings)
	assert.Contains(t, result.Format(), "valid")
}

func TestValidateMissingTransition(t *testing.T) {
	t.Parallel()

	snap := sampleSnapshot()
	snap.Transitions = append(snap.Transitions, fsm.Entry{From: "b", Symbol: "y", To: "c"})
	snap.Transitions = append(snap.Transitions, fsm.Entry{From: "c", Symbol: "z", To: "a"})

	result := ValidateAlphabet(snap, []rune{'y', 'z', '\n'})

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)

	e := result.Errors[0]
	assert.Equal(t, "MISSING_TRANSITION", e.Code)
	assert.Equal(t, "c", e.State)
	assert.Equal(t, []string{`'y'`, `'\n'`}, e.Symbols)
	assert.Contains(t, result.Format(), "MISSING_TRANSITION")
}

func TestValidateUnreachableState(t *testing.T) {
	t.Parallel()

	snap := sampleSnapshot()
	snap.Transitions = append(snap.Transitions, fsm.Entry{From: "orphan", Any: true, To: "a"})

	result := Validate(snap)

	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "UNREACHABLE_STATE", result.Warnings[0].Code)
	assert.Equal(t, "orphan", result.Warnings[0].State)
}

func TestValidateMissingDefault(t *testing.T) {
	t.Parallel()

	snap := sampleSnapshot()
	snap.Default = ""

	result := ValidateWithRules(snap, nil, []Rule{&missingDefaultRule{}})

	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "MISSING_DEFAULT", result.Warnings[0].Code)
	assert.Contains(t, result.Format(), "WARN")
}

func TestPrintableASCII(t *testing.T) {
	t.Parallel()

	alphabet := PrintableASCII()

	assert.Len(t, alphabet, 97)
	assert.Contains(t, alphabet, '\t')
	assert.Contains(t, alphabet, '\n')
	assert.Contains(t, alphabet, ' ')
	assert.Contains(t, alphabet, '~')
	assert.NotContains(t, alphabet, rune(0x7f))
}

func TestRuleNames(t *testing.T) {
	t.Parallel()

	names := make([]string, 0, len(DefaultRules()))
	for _, rule := range DefaultRules() {
		names = append(names, rule.Name())
	}

	assert.Equal(t, []string{"missing_transition", "unreachable_state", "dangling_target", "missing_default"}, names)
}

func TestValidateDanglingTarget(t *testing.T) {
	t.Parallel()

	snap := sampleSnapshot()
	snap.Transitions = append(snap.Transitions, fsm.Entry{From: "b", Symbol: "q", To: "sink"})

	result := Validate(snap)

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "sink", result.Errors[0].State)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "DANGLING_TARGET", result.Warnings[0].Code)
	assert.Equal(t, "sink", result.Warnings[0].State)
}
