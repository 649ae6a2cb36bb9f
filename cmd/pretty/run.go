package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/amp-labs/pretty/build"
	"github.com/amp-labs/pretty/fsm/validator"
	"github.com/amp-labs/pretty/fsm/visualizer"
	"github.com/amp-labs/pretty/input"
	"github.com/amp-labs/pretty/logger"
	"github.com/amp-labs/pretty/pretty"
	"github.com/amp-labs/pretty/script"
	"github.com/amp-labs/pretty/telemetry"
	"github.com/google/uuid"
)

var errNoFiles = errors.New("-w requires at least one file")

// config holds the command-line flags.
type config struct {
	write   bool
	table   bool
	mermaid bool
	check   bool
	debug   bool
	version bool
}

func run(ctx context.Context, cfg config, args []string, stdout io.Writer) error {
	ctx = logger.With(ctx, "run_id", uuid.NewString())

	if cfg.debug {
		if err := enableDebug(ctx); err != nil {
			return script.ExitWithError(err)
		}
	}

	set, err := loadSettings(ctx)
	if err != nil {
		return script.ExitWithError(err)
	}

	switch {
	case cfg.version:
		return printVersion(stdout)
	case cfg.table:
		return printTable(stdout)
	case cfg.mermaid:
		return printMermaid(stdout)
	case cfg.check:
		return checkTable(ctx, stdout)
	case cfg.write:
		if len(args) == 0 {
			return script.ExitWithError(errNoFiles)
		}

		return rewriteAll(ctx, args, set, cfg.debug)
	default:
		if len(args) == 0 {
			args = []string{input.Stdin}
		}

		return formatAll(ctx, args, set, cfg.debug, stdout)
	}
}

// enableDebug reinstalls the logger at Debug so transitions are visible.
func enableDebug(ctx context.Context) error {
	_, err := logger.ConfigureLogging(ctx, "pretty",
		logger.WithOutput(os.Stderr),
		logger.WithLevel(slog.LevelDebug),
		logger.WithHandler(telemetry.LogHandler("pretty")))

	return err
}

func formatterOptions(ctx context.Context, set settings, trace bool) []pretty.Option {
	return []pretty.Option{
		pretty.WithIndentWidth(set.indentWidth),
		pretty.WithLogger(logger.Get(ctx)),
		pretty.WithTrace(trace),
	}
}

// formatAll feeds every path, in order, through one formatter.
func formatAll(ctx context.Context, paths []string, set settings, trace bool, stdout io.Writer) error {
	out := bufio.NewWriter(stdout)
	f := pretty.New(out, formatterOptions(ctx, set, trace)...)

	for _, path := range paths {
		if err := copyFile(logger.With(ctx, "path", path), f, path, set.encoding); err != nil {
			_ = out.Flush()

			return script.ExitWithError(logger.AnnotateError(err, "path", path))
		}
	}

	if err := finish(f, out); err != nil {
		return script.ExitWithError(err)
	}

	return nil
}

func copyFile(ctx context.Context, f *pretty.Formatter, path, encoding string) error {
	src, err := input.Open(path)
	if err != nil {
		return err
	}

	defer src.Close() //nolint:errcheck

	r, charset, err := input.Decode(src, encoding)
	if err != nil {
		return err
	}

	n, err := f.Copy(ctx, r)
	if err != nil {
		return err
	}

	logger.Get(ctx).Debug("Formatted input", "charset", charset, "runes", n)

	return nil
}

// finish ends non-empty output with a newline and flushes it.
func finish(f *pretty.Formatter, out *bufio.Writer) error {
	if f.Written() > 0 {
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}

	return out.Flush()
}

func printVersion(stdout io.Writer) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(build.Current(buildInfo))
}

func printTable(stdout io.Writer) error {
	data, err := pretty.New(io.Discard).Table().YAML()
	if err != nil {
		return script.ExitWithError(err)
	}

	_, err = io.WriteString(stdout, data)

	return err
}

func printMermaid(stdout io.Writer) error {
	diagram, err := visualizer.GenerateMermaid(pretty.New(io.Discard).Table())
	if err != nil {
		return script.ExitWithError(err)
	}

	_, err = io.WriteString(stdout, diagram)

	return err
}

func checkTable(ctx context.Context, stdout io.Writer) error {
	table := pretty.New(io.Discard).Table()
	result := validator.Validate(table)

	if _, err := io.WriteString(stdout, result.Format()); err != nil {
		return err
	}

	logger.Get(ctx).Info("Checked transition table",
		"fingerprint", table.Fingerprint(),
		"errors", len(result.Errors),
		"warnings", len(result.Warnings))

	if !result.Valid {
		return script.ExitWithErrorMessage("transition table has %d errors", len(result.Errors))
	}

	return nil
}
