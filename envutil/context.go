package envutil

import (
	"context"
	"os"
)

type envContextKey string

// WithEnvOverride makes readers given ctx see value for key instead of the
// process environment.
func WithEnvOverride(ctx context.Context, key string, value string) context.Context {
	return context.WithValue(ctx, envContextKey(key), value)
}

func lookup(ctx context.Context, key string) (string, bool) {
	if ctx != nil {
		if val, ok := ctx.Value(envContextKey(key)).(string); ok {
			return val, true
		}
	}

	return os.LookupEnv(key)
}
