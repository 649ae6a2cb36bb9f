package fsm

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"facette.io/natsort"
	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
)

// Entry is one row of a table snapshot. Symbol is empty for a wildcard row
// and To is empty when the transition stays in From.
type Entry struct {
	From   string `json:"from"             yaml:"from"`
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Any    bool   `json:"any,omitempty"    yaml:"any,omitempty"`
	Action string `json:"action,omitempty" yaml:"action,omitempty"`
	To     string `json:"to,omitempty"     yaml:"to,omitempty"`
}

// Next returns the state the row leads to.
func (e Entry) Next() string {
	if e.To == "" {
		return e.From
	}

	return e.To
}

// MarshalYAML double-quotes the symbol. yaml.v3 otherwise writes a lone
// newline as an empty block scalar that reads back as "".
func (e Entry) MarshalYAML() (any, error) {
	type plain Entry

	var node yaml.Node

	err := node.Encode(plain(e))
	if err != nil {
		return nil, err
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "symbol" {
			value := node.Content[i+1]
			value.Kind = yaml.ScalarNode
			value.Tag = "!!str"
			value.Value = e.Symbol
			value.Style = yaml.DoubleQuotedStyle
		}
	}

	return &node, nil
}

// Snapshot is a detached, deterministically ordered copy of a machine's
// transition table.
type Snapshot struct {
	Name        string  `json:"name"              yaml:"name"`
	Initial     string  `json:"initial"           yaml:"initial"`
	Current     string  `json:"current"           yaml:"current"`
	Default     string  `json:"default,omitempty" yaml:"default,omitempty"`
	Transitions []Entry `json:"transitions"       yaml:"transitions"`
}

// Snapshot copies the transition table. Rows are grouped by state in the
// order states were first bound, exact rows sorted by symbol, the wildcard row
// last.
func (m *Machine[S, C]) Snapshot() Snapshot {
	snap := Snapshot{
		Name:    m.name,
		Initial: m.initial.String(),
		Current: m.current.String(),
	}

	if m.fallback != nil {
		snap.Default = m.fallback.Name()
	}

	for _, state := range m.states {
		var rows []transitionKey[S]

		for key := range m.exact {
			if key.state == state {
				rows = append(rows, key)
			}
		}

		slices.SortFunc(rows, func(a, b transitionKey[S]) int {
			return cmp.Compare(a.symbol, b.symbol)
		})

		for _, key := range rows {
			tr := m.exact[key]
			snap.Transitions = append(snap.Transitions, Entry{
				From:   state.String(),
				Symbol: string(key.symbol),
				Action: actionName(tr.action),
				To:     tr.target.String(),
			})
		}

		if tr, ok := m.wildcard[state]; ok {
			snap.Transitions = append(snap.Transitions, Entry{
				From:   state.String(),
				Any:    true,
				Action: actionName(tr.action),
				To:     tr.target.String(),
			})
		}
	}

	return snap
}

// States returns every state named in the snapshot, naturally sorted.
func (s Snapshot) States() []string {
	seen := map[string]bool{s.Initial: true}
	names := []string{s.Initial}

	for _, entry := range s.Transitions {
		for _, name := range []string{entry.From, entry.Next()} {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	natsort.Sort(names)

	return names
}

// Resolve looks up symbol in state the same way Machine.Process does, minus
// the default action.
func (s Snapshot) Resolve(state string, symbol rune) (Entry, Match) {
	var (
		wildcard Entry
		found    bool
	)

	for _, entry := range s.Transitions {
		if entry.From != state {
			continue
		}

		if entry.Any {
			wildcard, found = entry, true

			continue
		}

		if entry.Symbol == string(symbol) {
			return entry, MatchExact
		}
	}

	if found {
		return wildcard, MatchAny
	}

	return Entry{}, MatchNone
}

// YAML renders the snapshot for diagnostics.
func (s Snapshot) YAML() (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal table %s: %w", s.Name, err)
	}

	return string(data), nil
}

// ParseSnapshot reads a snapshot previously rendered with YAML.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot

	err := yaml.Unmarshal(data, &snap)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse table: %w", err)
	}

	return snap, nil
}

// Fingerprint returns a short stable hash of the table contents. Two machines
// built by the same code share a fingerprint regardless of current state.
func (s Snapshot) Fingerprint() string {
	var sb strings.Builder

	sb.WriteString(s.Name)
	sb.WriteString("\x00")
	sb.WriteString(s.Initial)
	sb.WriteString("\x00")
	sb.WriteString(s.Default)

	for _, entry := range s.Transitions {
		fmt.Fprintf(&sb, "\x00%s\x01%s\x01%t\x01%s\x01%s", entry.From, entry.Symbol, entry.Any, entry.Action, entry.To)
	}

	return fmt.Sprintf("%016x", xxh3.HashString(sb.String()))
}

// String returns the YAML rendering, or a one-line summary if that fails.
func (s Snapshot) String() string {
	out, err := s.YAML()
	if err != nil {
		return fmt.Sprintf("%s (%d transitions)", s.Name, len(s.Transitions))
	}

	return out
}

func actionName[S State, C any](action Action[S, C]) string {
	if action == nil {
		return ""
	}

	return action.Name()
}
