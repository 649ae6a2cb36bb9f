package pretty

// State is a formatting context.
type State int

const (
	// Router is the top-level context, outside strings and separators.
	Router State = iota
	// String is inside a quoted literal.
	String
	// Newline follows an emitted line break and swallows blanks.
	Newline
	// Word follows a collapsed run of blanks.
	Word
)

// States lists every formatting context.
func States() []State {
	return []State{Router, String, Newline, Word}
}

func (s State) String() string {
	switch s {
	case Router:
		return "router"
	case String:
		return "string"
	case Newline:
		return "newline"
	case Word:
		return "word"
	default:
		return "invalid"
	}
}
