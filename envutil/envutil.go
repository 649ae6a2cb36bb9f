// Package envutil reads typed configuration from environment variables.
//
//	width := envutil.Int(ctx, "PRETTY_INDENT_WIDTH", envutil.Default(4), envutil.AtLeast(0))
//	value, err := width.Value()
package envutil

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"
)

func get(ctx context.Context, key string) Reader[string] {
	val, ok := lookup(ctx, key)

	return Reader[string]{key: key, present: ok, value: val}
}

// String reads key verbatim.
func String(ctx context.Context, key string, opts ...Option[string]) Reader[string] {
	return apply(get(ctx, key), opts)
}

// Bool reads key with strconv.ParseBool, so 1/0, t/f and true/false in any
// case are accepted.
func Bool(ctx context.Context, key string, opts ...Option[bool]) Reader[bool] {
	rdr := Map(get(ctx, key), func(val string) (bool, error) {
		return strconv.ParseBool(strings.TrimSpace(val))
	})

	return apply(rdr, opts)
}

// Int reads key as a base 10 integer.
func Int(ctx context.Context, key string, opts ...Option[int]) Reader[int] {
	rdr := Map(get(ctx, key), func(val string) (int, error) {
		return strconv.Atoi(strings.TrimSpace(val))
	})

	return apply(rdr, opts)
}

// Duration reads key with time.ParseDuration.
func Duration(ctx context.Context, key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	rdr := Map(get(ctx, key), func(val string) (time.Duration, error) {
		return time.ParseDuration(strings.TrimSpace(val))
	})

	return apply(rdr, opts)
}

// SlogLevel reads key as a slog level name such as "debug" or "WARN+2".
func SlogLevel(ctx context.Context, key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	rdr := Map(get(ctx, key), func(val string) (slog.Level, error) {
		var level slog.Level

		err := level.UnmarshalText([]byte(strings.TrimSpace(val)))

		return level, err
	})

	return apply(rdr, opts)
}

// URL reads key as an absolute URL.
func URL(ctx context.Context, key string, opts ...Option[*url.URL]) Reader[*url.URL] {
	rdr := Map(get(ctx, key), func(val string) (*url.URL, error) {
		return url.ParseRequestURI(strings.TrimSpace(val))
	})

	return apply(rdr, opts)
}
