package pretty

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/amp-labs/pretty/fsm"
	"github.com/amp-labs/pretty/logger"
)

const (
	// DefaultIndentWidth is the number of spaces per indentation level.
	DefaultIndentWidth = 4

	// DefaultName names the transition table in metrics, logs and dumps.
	DefaultName = "pretty"

	// cancelCheckInterval is how many runes Copy processes between context checks.
	cancelCheckInterval = 4096
)

// ErrHalted is returned by every call after a Formatter has failed once.
var ErrHalted = errors.New("formatter halted")

// Option configures a Formatter.
type Option func(*Formatter)

// WithIndentWidth sets the number of spaces per indentation level.
// Negative widths are treated as zero.
func WithIndentWidth(width int) Option {
	return func(f *Formatter) {
		f.width = max(width, 0)
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(f *Formatter) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithTrace logs every transition at debug level.
func WithTrace(enabled bool) Option {
	return func(f *Formatter) {
		f.trace = enabled
	}
}

// WithName overrides the transition table name.
func WithName(name string) Option {
	return func(f *Formatter) {
		f.name = name
	}
}

// Formatter reformats a single character stream written to an output sink.
// The indentation level and the machine state persist across calls, so a
// stream may be fed in any number of pieces. A Formatter is not safe for
// concurrent use.
type Formatter struct {
	machine *fsm.Machine[State, *Formatter]
	out     io.Writer
	logger  *slog.Logger
	name    string
	trace   bool

	level   int
	width   int
	indent  string
	written int64
	buf     [4]byte

	halted error
}

// New creates a Formatter writing to out. The sink is never closed.
func New(out io.Writer, opts ...Option) *Formatter {
	f := &Formatter{
		out:    out,
		logger: logger.Get(),
		name:   DefaultName,
		width:  DefaultIndentWidth,
	}

	for _, opt := range opts {
		opt(f)
	}

	f.machine = fsm.NewMachine[State, *Formatter](f.name, Router)
	bindTable(f.machine)

	if f.trace {
		f.machine.SetLogger(fsm.NewDefaultLogger(f.logger))
	}

	return f
}

// Feed processes a single character.
func (f *Formatter) Feed(r rune) error {
	if f.halted != nil {
		return fmt.Errorf("%w: %w", ErrHalted, f.halted)
	}

	err := f.machine.Process(f, r)
	if err != nil {
		f.halted = err

		return err
	}

	return nil
}

// Run processes every character of data in order.
func (f *Formatter) Run(data string) error {
	for _, r := range data {
		err := f.Feed(r)
		if err != nil {
			return err
		}
	}

	return nil
}

// Copy streams r through the formatter until EOF and returns the number of
// characters processed. Bytes that are not valid UTF-8 are processed as
// utf8.RuneError. Cancelling ctx stops the copy but does not halt the
// formatter.
func (f *Formatter) Copy(ctx context.Context, r io.Reader) (n int64, err error) {
	ctx, span := startCopySpan(ctx, f)
	defer func() {
		endCopySpan(span, f, n, err)
	}()

	log := logger.Get(ctx)
	reader := bufio.NewReader(r)

	for {
		if n%cancelCheckInterval == 0 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return n, ctxErr
			}
		}

		symbol, _, readErr := reader.ReadRune()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				log.Debug("Formatted stream",
					"table", f.name,
					"runes", n,
					"written", f.written,
					"state", f.State().String(),
					"indent_level", f.level)

				return n, nil
			}

			return n, fmt.Errorf("reading input: %w", readErr)
		}

		err = f.Feed(symbol)
		if err != nil {
			return n, err
		}

		n++
	}
}

// State returns the current formatting context.
func (f *Formatter) State() State {
	return f.machine.CurrentState()
}

// IndentLevel returns the current nesting depth.
func (f *Formatter) IndentLevel() int {
	return f.level
}

// IndentString returns the whitespace emitted after line breaks at the current depth.
func (f *Formatter) IndentString() string {
	return f.indent
}

// Written returns the number of bytes written to the sink so far.
func (f *Formatter) Written() int64 {
	return f.written
}

// Err returns the error that halted the formatter, if any.
func (f *Formatter) Err() error {
	return f.halted
}

// Table returns a snapshot of the transition table.
func (f *Formatter) Table() fsm.Snapshot {
	return f.machine.Snapshot()
}
