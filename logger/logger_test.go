package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"strings"
	"testing"

	"github.com/amp-labs/pretty/envutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests replace the process-wide loggers and cannot run in parallel.
func restoreDefaults(t *testing.T) {
	t.Helper()

	previous := slog.Default()
	legacy := *log.Default()

	t.Cleanup(func() {
		slog.SetDefault(previous)
		*log.Default() = legacy //nolint:govet
		subsystem.Store("")
	})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any

	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		records = append(records, rec)
	}

	return records
}

func TestGet(t *testing.T) { //nolint:paralleltest
	restoreDefaults(t)

	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{Subsystem: "pretty", JSON: true, Output: &buf})

	Get().Info("default subsystem")
	Get(WithSubsystem(t.Context(), "rewrite")).Info("overridden")
	Get(With(With(t.Context(), "path", "a.txt"), "run_id", "r1")).Info("values")
	Get(nil, t.Context()).Info("first non-nil") //nolint:staticcheck
	Get(WithMuted(t.Context(), true)).Error("muted")

	records := decodeLines(t, &buf)
	require.Len(t, records, 4)

	assert.Equal(t, "pretty", records[0]["subsystem"])
	assert.Equal(t, "rewrite", records[1]["subsystem"])
	assert.Equal(t, "a.txt", records[2]["path"])
	assert.Equal(t, "r1", records[2]["run_id"])
	assert.Equal(t, "first non-nil", records[3]["msg"])
}

func TestLegacy(t *testing.T) { //nolint:paralleltest
	restoreDefaults(t)

	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{JSON: true, Output: &buf, LegacyLevel: slog.LevelWarn})

	log.Println("from log")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "WARN", records[0]["level"])
	assert.Equal(t, "from log", records[0]["msg"])
}

func TestConfigureLogging(t *testing.T) { //nolint:paralleltest
	restoreDefaults(t)

	var buf bytes.Buffer

	ctx := envutil.WithEnvOverride(t.Context(), "LOG_JSON", "true")
	ctx = envutil.WithEnvOverride(ctx, "LOG_LEVEL", "debug")

	_, err := ConfigureLogging(ctx, "pretty", WithOutput(&buf))
	require.NoError(t, err)

	Get().Debug("visible")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "DEBUG", records[0]["level"])
	assert.Equal(t, "pretty", GetSubsystem(t.Context()))
}

func TestConfigureLoggingLevelOption(t *testing.T) { //nolint:paralleltest
	restoreDefaults(t)

	var buf bytes.Buffer

	ctx := envutil.WithEnvOverride(t.Context(), "LOG_LEVEL", "error")

	_, err := ConfigureLogging(ctx, "pretty", WithOutput(&buf), WithLevel(slog.LevelDebug))
	require.NoError(t, err)

	Get().Debug("kept")
	assert.Contains(t, buf.String(), "msg=kept")
}

func TestConfigureLoggingErrors(t *testing.T) { //nolint:paralleltest
	restoreDefaults(t)

	ctx := envutil.WithEnvOverride(t.Context(), "LOG_OUTPUT", "syslog")
	_, err := ConfigureLogging(ctx, "pretty")
	require.ErrorIs(t, err, ErrInvalidLogOutput)

	ctx = envutil.WithEnvOverride(t.Context(), "LOG_JSON", "maybe")
	_, err = ConfigureLogging(ctx, "pretty")
	require.ErrorIs(t, err, envutil.ErrBadEnvVar)

	ctx = envutil.WithEnvOverride(t.Context(), "LOG_LEVEL", "chatty")
	_, err = ConfigureLogging(ctx, "pretty")
	require.ErrorIs(t, err, envutil.ErrBadEnvVar)
}

func TestExtraHandler(t *testing.T) { //nolint:paralleltest
	restoreDefaults(t)

	var primary, extra bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Output:   &primary,
		MinLevel: slog.LevelWarn,
		Extra: []slog.Handler{
			slog.NewTextHandler(&extra, &slog.HandlerOptions{Level: slog.LevelDebug}),
		},
	})

	Get().With("k", "v").Debug("debug only")
	Get().Warn("both")

	assert.NotContains(t, primary.String(), "debug only")
	assert.Contains(t, primary.String(), "both")
	assert.Contains(t, extra.String(), "msg=\"debug only\" k=v")
	assert.Contains(t, extra.String(), "msg=both")
}

func TestAnnotateError(t *testing.T) { //nolint:paralleltest
	restoreDefaults(t)

	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{JSON: true, Output: &buf})

	errBase := errors.New("disk full")
	err := AnnotateError(errBase, "path", "a.txt", "bytes", 12)
	require.ErrorIs(t, err, errBase)
	assert.Equal(t, "disk full", err.Error())

	wrapped := errors.Join(errors.New("rewriting"), err)
	Get().Error("failed", "error", wrapped, "other", errors.New("plain"))

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "a.txt", records[0]["path"])
	assert.InDelta(t, 12, records[0]["bytes"], 0)
	assert.Equal(t, "plain", records[0]["other"])
	assert.Contains(t, records[0]["error"], "disk full")

	assert.NoError(t, AnnotateError(nil, "path", "x"))
}
