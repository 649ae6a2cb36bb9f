package script

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"log/slog"
	"strconv"
	"testing"

	"github.com/amp-labs/pretty/envutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExit(t *testing.T) {
	t.Parallel()

	for _, code := range []int{0, 1, 42} {
		err := Exit(code)
		require.Error(t, err)
		assert.Equal(t, "exit "+strconv.Itoa(code), err.Error())
		assert.Equal(t, code, ExitCode(err))
	}
}

func TestExitWithError(t *testing.T) {
	t.Parallel()

	errTest := errors.New("test error")
	err := ExitWithError(errTest)

	assert.Equal(t, "exit 1: test error", err.Error())
	require.ErrorIs(t, err, errTest)
	assert.Equal(t, 1, ExitCode(err))

	err = ExitWithErrorMessage("bad file %s", "a.txt")
	assert.Equal(t, "exit 1: bad file a.txt", err.Error())
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("plain")))
	assert.Equal(t, 3, ExitCode(errors.Join(errors.New("context"), Exit(3))))
}

// The run tests install process-wide loggers and cannot run in parallel.
func newTestScript(t *testing.T, buf *bytes.Buffer, opts ...Option) *Script {
	t.Helper()

	previous := slog.Default()
	legacy := *log.Default()

	t.Cleanup(func() {
		slog.SetDefault(previous)
		*log.Default() = legacy //nolint:govet
	})

	fs := flag.NewFlagSet("test-script", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	base := []Option{Flags(fs, nil), LogOutput(buf), Telemetry(false)}

	return New("test-script", append(base, opts...)...)
}

func TestRun(t *testing.T) { //nolint:paralleltest
	tests := []struct {
		name         string
		callback     func(ctx context.Context) error
		expectedCode int
		logged       string
	}{
		{name: "success", callback: func(context.Context) error { return nil }},
		{name: "exit 0", callback: func(context.Context) error { return Exit(0) }},
		{name: "exit 42", callback: func(context.Context) error { return Exit(42) }, expectedCode: 42, logged: "exit 42"},
		{
			name:         "exit with error",
			callback:     func(context.Context) error { return ExitWithError(errors.New("boom")) },
			expectedCode: 1,
			logged:       "boom",
		},
		{
			name:         "plain error",
			callback:     func(context.Context) error { return errors.New("plain") },
			expectedCode: 1,
			logged:       "plain",
		},
		{name: "nil callback", expectedCode: 1, logged: "callback is nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			code := newTestScript(t, &buf).run(t.Context(), tt.callback)
			assert.Equal(t, tt.expectedCode, code)

			if tt.logged != "" {
				assert.Contains(t, buf.String(), tt.logged)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestRunContext(t *testing.T) { //nolint:paralleltest
	var buf bytes.Buffer

	ctx := envutil.WithEnvOverride(t.Context(), "LOG_LEVEL", "debug")

	code := newTestScript(t, &buf).run(ctx, func(ctx context.Context) error {
		require.NotNil(t, ctx)
		slog.Debug("inside")

		return nil
	})

	assert.Equal(t, 0, code)
	assert.Contains(t, buf.String(), "msg=inside")
}

func TestRunFlags(t *testing.T) { //nolint:paralleltest
	var buf bytes.Buffer

	fs := flag.NewFlagSet("test-script", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	width := fs.Int("width", 4, "")

	code := newTestScript(t, &buf, Flags(fs, []string{"-width", "2", "file"})).run(t.Context(), func(context.Context) error {
		assert.Equal(t, 2, *width)
		assert.Equal(t, []string{"file"}, fs.Args())

		return nil
	})
	assert.Equal(t, 0, code)

	fs = flag.NewFlagSet("test-script", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	code = newTestScript(t, &buf, Flags(fs, []string{"-nope"})).run(t.Context(), func(context.Context) error {
		t.Fatal("not called")

		return nil
	})
	assert.Equal(t, 2, code)

	fs = flag.NewFlagSet("test-script", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	code = newTestScript(t, &buf, Flags(fs, []string{"-h"})).run(t.Context(), nil)
	assert.Equal(t, 0, code)

	code = newTestScript(t, &buf, Flags(fs, []string{"-nope"}), EnableFlagParse(false)).
		run(t.Context(), func(context.Context) error { return nil })
	assert.Equal(t, 0, code)
}

func TestRunBadLogConfig(t *testing.T) { //nolint:paralleltest
	var buf bytes.Buffer

	ctx := envutil.WithEnvOverride(t.Context(), "LOG_OUTPUT", "printer")

	code := newTestScript(t, &buf).run(ctx, func(context.Context) error { return nil })
	assert.Equal(t, 1, code)
}

func TestRunTelemetryDisabledByEnv(t *testing.T) { //nolint:paralleltest
	var buf bytes.Buffer

	ctx := envutil.WithEnvOverride(t.Context(), "OTEL_ENABLED", "false")

	code := newTestScript(t, &buf, Telemetry(true)).run(ctx, func(context.Context) error { return nil })
	assert.Equal(t, 0, code)

	ctx = envutil.WithEnvOverride(t.Context(), "OTEL_ENABLED", "often")

	code = newTestScript(t, &buf, Telemetry(true)).run(ctx, func(context.Context) error { return nil })
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "error setting up telemetry")
}
