package fsm

import (
	"log/slog"
)

// Logger provides logging hooks for machine steps.
type Logger interface {
	TransitionExecuted(machine, from string, symbol rune, to string, match Match)
	TransitionUnhandled(machine, state string, symbol rune)
}

// DefaultLogger implements Logger using slog. Executed transitions are logged
// at debug level, the same trace the formatter prints with -debug.
type DefaultLogger struct {
	logger *slog.Logger
}

// NewDefaultLogger creates a logger writing to l, or to slog.Default when l is nil.
func NewDefaultLogger(l *slog.Logger) *DefaultLogger {
	if l == nil {
		l = slog.Default()
	}

	return &DefaultLogger{
		logger: l,
	}
}

func (l *DefaultLogger) TransitionExecuted(machine, from string, symbol rune, to string, match Match) {
	l.logger.Debug("Transition executed",
		"machine", machine,
		"from", from,
		"symbol", string(symbol),
		"to", to,
		"match", match.String(),
	)
}

func (l *DefaultLogger) TransitionUnhandled(machine, state string, symbol rune) {
	l.logger.Warn("Transition unhandled",
		"machine", machine,
		"state", state,
		"symbol", string(symbol),
	)
}
