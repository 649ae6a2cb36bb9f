// Command pretty reformats text read from files or standard input.
//
//	pretty [flags] [file ...]
//
// With no files, standard input is read. Files are concatenated into one
// stream and written to standard output, or with -w each file is rewritten
// in place. Files ending in .gz, .zst, .br, .lz4 or .sz are decompressed
// (and recompressed by -w).
package main

import (
	"context"
	"flag"
	"os"

	"github.com/amp-labs/pretty/script"
)

// buildInfo may be set with -ldflags "-X main.buildInfo=<json>".
var buildInfo = "{}" //nolint:gochecknoglobals

func main() {
	var cfg config

	flag.BoolVar(&cfg.write, "w", false, "rewrite files in place")
	flag.BoolVar(&cfg.table, "table", false, "print the transition table as YAML and exit")
	flag.BoolVar(&cfg.mermaid, "mermaid", false, "print the transition table as a Mermaid diagram and exit")
	flag.BoolVar(&cfg.check, "check", false, "validate the transition table and exit")
	flag.BoolVar(&cfg.debug, "debug", false, "log every transition")
	flag.BoolVar(&cfg.version, "version", false, "print build information and exit")

	script.New("pretty", script.LogOutput(os.Stderr)).Run(func(ctx context.Context) error {
		return run(ctx, cfg, flag.Args(), os.Stdout)
	})
}
