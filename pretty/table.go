package pretty

import (
	"github.com/amp-labs/pretty/fsm"
)

// Symbol classes.
const (
	quotes     = "\"'`"
	separators = ",;\n"
	openers    = "{["
	closers    = "}]"
	blanks     = " \t"
)

// bindTable wires the reformatting policy into m. Later bindings replace
// earlier ones, which is how newline lets '\n' collapse instead of breaking
// the line again.
func bindTable(m *fsm.Machine[State, *Formatter]) {
	var (
		emit  = fsm.NewAction("emit", (*Formatter).emit)
		space = fsm.NewAction("space", (*Formatter).space)
		line  = fsm.NewAction("line", (*Formatter).line)
		open  = fsm.NewAction("open", (*Formatter).openBlock)
		shut  = fsm.NewAction("close", (*Formatter).closeBlock)
		stay  = fsm.Stay[State]()
	)

	m.BindDefault(fsm.NewAction("fail", (*Formatter).fail))

	m.BindAny(Router, emit, stay)
	m.BindSet(blanks, Router, space, fsm.To(Word))

	m.BindAny(Word, emit, fsm.To(Router))
	m.BindSet(blanks, Word, nil, stay)

	m.BindAny(Newline, emit, fsm.To(Router))

	for _, from := range []State{Router, Word, Newline} {
		m.BindSet(quotes, from, emit, fsm.To(String))
		m.BindSet(separators, from, line, fsm.To(Newline))
		m.BindSet(openers, from, open, fsm.To(Newline))
		m.BindSet(closers, from, shut, fsm.To(Newline))
	}

	m.BindSet(blanks+"\n", Newline, nil, stay)

	m.BindAny(String, emit, stay)
	m.BindSet(quotes, String, emit, fsm.To(Router))
}
