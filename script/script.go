// Package script runs a command-line program with logging, telemetry,
// signal handling and exit code management set up around it.
package script

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/amp-labs/pretty/envutil"
	"github.com/amp-labs/pretty/logger"
	"github.com/amp-labs/pretty/telemetry"
)

const shutdownTimeout = 5 * time.Second

// Option is a function that configures a Script.
type Option func(script *Script)

// Exit returns an error that makes the script exit with code without
// logging anything.
func Exit(code int) error {
	return &exitError{code: code}
}

// ExitWithError returns an error that makes the script log err and exit
// with code 1.
func ExitWithError(err error) error {
	return &exitError{err: err, code: 1}
}

// ExitWithErrorMessage is ExitWithError with a formatted message.
func ExitWithErrorMessage(msg string, args ...any) error {
	return &exitError{
		err:  fmt.Errorf(msg, args...), //nolint:err113
		code: 1,
	}
}

type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string {
	msg := "exit " + strconv.Itoa(e.code)

	if e.err != nil {
		return msg + ": " + e.err.Error()
	}

	return msg
}

func (e *exitError) Unwrap() error {
	return e.err
}

// ExitCode returns the code err asks the script to exit with: 0 for nil,
// the carried code for errors made by Exit and friends, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	return 1
}

// LogLevel sets the minimum log level, overriding LOG_LEVEL.
func LogLevel(lvl slog.Level) Option {
	return func(script *Script) {
		script.loggerOpts = append(script.loggerOpts, logger.WithLevel(lvl))
	}
}

// LogOutput sets the default log destination. LOG_OUTPUT still wins.
func LogOutput(writer io.Writer) Option {
	return func(script *Script) {
		script.loggerOpts = append(script.loggerOpts, logger.WithOutput(writer))
	}
}

// EnableFlagParse controls whether flags are parsed before running.
// Defaults to true.
func EnableFlagParse(enabled bool) Option {
	return func(script *Script) {
		script.flagParseEnable = enabled
	}
}

// Flags parses args with fs instead of os.Args with flag.CommandLine.
func Flags(fs *flag.FlagSet, args []string) Option {
	return func(script *Script) {
		script.flags = fs
		script.args = args
	}
}

// Telemetry controls whether OpenTelemetry is set up from the OTEL_*
// variables. Defaults to true.
func Telemetry(enabled bool) Option {
	return func(script *Script) {
		script.telemetry = enabled
	}
}

// Script is a runnable program with configured logging and signal handling.
type Script struct {
	name            string
	flagParseEnable bool
	telemetry       bool
	flags           *flag.FlagSet
	args            []string
	loggerOpts      []logger.Option
}

// New creates a Script with the given name and options.
func New(scriptName string, opts ...Option) *Script {
	script := &Script{
		name:            scriptName,
		flagParseEnable: true,
		telemetry:       true,
		flags:           flag.CommandLine,
		args:            os.Args[1:],
	}

	for _, opt := range opts {
		opt(script)
	}

	return script
}

// Run calls f with a context that is canceled on SIGINT or SIGTERM, then
// exits the process with the resulting code. It does not return.
func (r *Script) Run(f func(ctx context.Context) error) {
	os.Exit(r.run(context.Background(), f))
}

func (r *Script) run(parent context.Context, callback func(ctx context.Context) error) int {
	if r.flagParseEnable {
		if err := r.flags.Parse(r.args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}

			// The flag set has already reported the problem.
			return 2 //nolint:mnd
		}
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := logger.ConfigureLogging(ctx, r.name, r.loggerOpts...); err != nil {
		fmt.Fprintf(os.Stderr, "%s: configuring logging: %v\n", r.name, err)

		return 1
	}

	log := logger.Get(ctx)

	if callback == nil {
		log.Error("callback is nil")

		return 1
	}

	if r.telemetry {
		if err := r.startTelemetry(ctx); err != nil {
			log.Error("error setting up telemetry", "error", err)

			return 1
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()

			if err := telemetry.Shutdown(shutdownCtx); err != nil {
				logger.Get(ctx).Warn("error shutting down telemetry", "error", err)
			}
		}()
	}

	err := callback(ctx)

	code := ExitCode(err)
	if err != nil && code != 0 {
		logger.Get(ctx).Error("error running script", "error", err)
	}

	return code
}

// startTelemetry initializes OpenTelemetry and, when log export is on,
// reinstalls the logger so records are also exported.
func (r *Script) startTelemetry(ctx context.Context) error {
	environment := envutil.String(ctx, "ENVIRONMENT", envutil.Default("local")).ValueOrElse("local")

	config, err := telemetry.LoadConfigFromEnv(ctx, environment)
	if err != nil {
		return err
	}

	if err := telemetry.Initialize(ctx, config); err != nil {
		return err
	}

	handler := telemetry.LogHandler(r.name)
	if handler == nil {
		return nil
	}

	opts := append([]logger.Option{}, r.loggerOpts...)
	opts = append(opts, logger.WithHandler(handler))

	_, err = logger.ConfigureLogging(ctx, r.name, opts...)

	return err
}
