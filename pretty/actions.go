package pretty

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/amp-labs/pretty/fsm"
)

// emit writes the symbol unchanged.
func (f *Formatter) emit(step fsm.Step[State]) error {
	return f.writeRune(step.Symbol)
}

// space writes the single space a run of blanks collapses to.
func (f *Formatter) space(_ fsm.Step[State]) error {
	return f.writeString(" ")
}

// line ends the current line at a separator. A newline separator is not
// written twice.
func (f *Formatter) line(step fsm.Step[State]) error {
	if step.Symbol != '\n' {
		err := f.writeRune(step.Symbol)
		if err != nil {
			return err
		}
	}

	return f.writeString("\n" + f.indent)
}

// openBlock writes the opener, breaks the line and indents one level deeper.
func (f *Formatter) openBlock(step fsm.Step[State]) error {
	err := f.writeRune(step.Symbol)
	if err != nil {
		return err
	}

	err = f.writeString("\n")
	if err != nil {
		return err
	}

	f.setLevel(f.level + 1)

	return f.writeString(f.indent)
}

// closeBlock breaks the line, dedents and writes the closer at the outer
// level. Unbalanced closers stay at level zero.
func (f *Formatter) closeBlock(step fsm.Step[State]) error {
	err := f.writeString("\n")
	if err != nil {
		return err
	}

	f.setLevel(f.level - 1)

	err = f.writeString(f.indent)
	if err != nil {
		return err
	}

	return f.writeRune(step.Symbol)
}

// fail is the default transition. It reports the gap with the whole table
// and returns the error that halts the formatter.
func (f *Formatter) fail(step fsm.Step[State]) error {
	unhandled := f.machine.Unhandled(step.Symbol)

	table, err := unhandled.Table.YAML()
	if err != nil {
		table = err.Error()
	}

	f.logger.Error("Unhandled transition, halting formatter",
		"state", step.State.String(),
		"symbol", strconv.QuoteRune(step.Symbol),
		"table_fingerprint", unhandled.Table.Fingerprint(),
		"transitions", table)

	return unhandled
}

// setLevel updates the nesting depth and the cached indent string.
func (f *Formatter) setLevel(level int) {
	f.level = max(level, 0)
	f.indent = strings.Repeat(" ", f.level*f.width)
}

func (f *Formatter) writeRune(r rune) error {
	n := utf8.EncodeRune(f.buf[:], r)

	written, err := f.out.Write(f.buf[:n])
	f.written += int64(written)

	return err
}

func (f *Formatter) writeString(s string) error {
	if s == "" {
		return nil
	}

	written, err := io.WriteString(f.out, s)
	f.written += int64(written)

	return err
}
