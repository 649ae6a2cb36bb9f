package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/pretty/input"
	"github.com/amp-labs/pretty/logger"
	"github.com/amp-labs/pretty/pretty"
	"github.com/amp-labs/pretty/script"
	"go.uber.org/atomic"
)

var errStdinInPlace = errors.New("standard input cannot be rewritten in place")

// rewriteAll formats each path in place with its own formatter, running up
// to set.workers files at once. Every file is attempted; the failures are
// reported together.
func rewriteAll(ctx context.Context, paths []string, set settings, trace bool) error {
	pool := pond.NewPool(set.workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	rewritten := atomic.NewInt64(0)
	started := time.Now()

	tasks := make([]pond.Task, len(paths))
	for i, path := range paths {
		tasks[i] = pool.SubmitErr(func() error {
			if err := rewrite(ctx, path, set, trace); err != nil {
				return logger.AnnotateError(fmt.Errorf("rewriting %s: %w", path, err), "path", path)
			}

			rewritten.Inc()

			return nil
		})
	}

	var errs []error

	for _, task := range tasks {
		if err := task.Wait(); err != nil {
			errs = append(errs, err)
		}
	}

	logger.Get(ctx).Info("Rewrote files",
		"rewritten", rewritten.Load(),
		"failed", len(errs),
		"workers", set.workers,
		"duration", time.Since(started))

	if len(errs) > 0 {
		return script.ExitWithError(errors.Join(errs...))
	}

	return nil
}

// rewrite formats one file into a staged replacement and commits it only
// when the whole file was formatted.
func rewrite(ctx context.Context, path string, set settings, trace bool) (err error) {
	if path == input.Stdin {
		return errStdinInPlace
	}

	ctx = logger.With(ctx, "path", path)

	rep, err := input.Replace(path)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = rep.Abort()
		}
	}()

	out := bufio.NewWriter(rep)
	f := pretty.New(out, formatterOptions(ctx, set, trace)...)

	if err := copyFile(ctx, f, path, set.encoding); err != nil {
		return err
	}

	if err := finish(f, out); err != nil {
		return err
	}

	if err := rep.Commit(); err != nil {
		return err
	}

	logger.Get(ctx).Debug("Rewrote file", "bytes", f.Written())

	return nil
}
