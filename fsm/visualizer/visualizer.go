// Package visualizer generates Mermaid state diagrams from transition table
// snapshots.
package visualizer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/amp-labs/pretty/fsm"
)

// ErrNoInitialState is returned for a snapshot without an initial state.
var ErrNoInitialState = errors.New("snapshot must have an initial state")

// edge groups every row sharing source, destination and action so that a
// symbol class renders as one arrow.
type edge struct {
	from    string
	to      string
	action  string
	symbols []string
}

// GenerateMermaid converts a snapshot to a Mermaid state diagram.
func GenerateMermaid(snap fsm.Snapshot) (string, error) {
	return GenerateMermaidWithOptions(snap, DefaultOptions())
}

// GenerateMermaidWithOptions generates a Mermaid diagram with custom options.
func GenerateMermaidWithOptions(snap fsm.Snapshot, opts Options) (string, error) {
	if snap.Initial == "" {
		return "", ErrNoInitialState
	}

	var sb strings.Builder

	sb.WriteString("```mermaid\n")
	fmt.Fprintf(&sb, "stateDiagram-v2\n    direction %s\n", opts.Direction)
	fmt.Fprintf(&sb, "    [*] --> %s\n", snap.Initial)

	highlight := make(map[string]bool)
	for _, state := range opts.HighlightPath {
		highlight[state] = true
	}

	for _, e := range groupEdges(snap) {
		label := strings.Join(e.symbols, " ")
		if opts.ShowActions && e.action != "" {
			label += " / " + e.action
		}

		fmt.Fprintf(&sb, "    %s --> %s: %s\n", e.from, e.to, label)
	}

	for _, state := range snap.States() {
		if highlight[state] {
			fmt.Fprintf(&sb, "    class %s highlighted\n", state)
		}
	}

	sb.WriteString("\n")
	sb.WriteString("    classDef highlighted fill:#fff9c4,stroke:#f57f17,stroke-width:3px\n")
	sb.WriteString("```\n")

	return sb.String(), nil
}

func groupEdges(snap fsm.Snapshot) []*edge {
	var edges []*edge

	index := make(map[[3]string]*edge)

	for _, entry := range snap.Transitions {
		key := [3]string{entry.From, entry.Next(), entry.Action}

		e, ok := index[key]
		if !ok {
			e = &edge{from: entry.From, to: entry.Next(), action: entry.Action}
			index[key] = e
			edges = append(edges, e)
		}

		e.symbols = append(e.symbols, symbolLabel(entry))
	}

	return edges
}

// symbolLabel renders a symbol so it survives inside a Mermaid label, which
// cannot contain raw colons, quotes or line breaks.
func symbolLabel(entry fsm.Entry) string {
	if entry.Any {
		return "*"
	}

	quoted := strconv.Quote(entry.Symbol)
	quoted = quoted[1 : len(quoted)-1]

	switch quoted {
	case " ":
		return "SP"
	case ":":
		return "#58;"
	case `\"`:
		return "#quot;"
	case ";":
		return "#59;"
	default:
		return quoted
	}
}
