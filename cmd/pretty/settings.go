package main

import (
	"context"
	"runtime"

	"github.com/amp-labs/pretty/envutil"
	"github.com/amp-labs/pretty/input"
	"github.com/amp-labs/pretty/pretty"
)

// settings come from the environment.
type settings struct {
	indentWidth int
	encoding    string
	workers     int
}

func loadSettings(ctx context.Context) (settings, error) {
	width, err := envutil.Int(ctx, "PRETTY_INDENT_WIDTH",
		envutil.Default(pretty.DefaultIndentWidth), envutil.AtLeast(0)).Value()
	if err != nil {
		return settings{}, err
	}

	encoding, err := envutil.String(ctx, "PRETTY_ENCODING", envutil.Default(input.UTF8)).Value()
	if err != nil {
		return settings{}, err
	}

	workers, err := envutil.Int(ctx, "PRETTY_WORKERS",
		envutil.Default(runtime.NumCPU()), envutil.AtLeast(1)).Value()
	if err != nil {
		return settings{}, err
	}

	return settings{indentWidth: width, encoding: encoding, workers: workers}, nil
}
