package envutil

import (
	"cmp"
	"fmt"
	"slices"
)

// Option modifies a Reader after the variable is parsed.
type Option[T any] func(Reader[T]) Reader[T]

// Default supplies the value used when the variable is unset.
func Default[T any](dfl T) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.WithDefault(dfl)
	}
}

// Validate fails the Reader when f rejects the value.
func Validate[T any](f func(T) error) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return Map(rdr, func(val T) (T, error) {
			return val, f(val)
		})
	}
}

// AtLeast rejects values below lowest.
func AtLeast[T cmp.Ordered](lowest T) Option[T] {
	return Validate(func(val T) error {
		if val < lowest {
			return fmt.Errorf("%v is less than %v", val, lowest)
		}

		return nil
	})
}

// OneOf rejects values outside allowed.
func OneOf[T comparable](allowed ...T) Option[T] {
	return Validate(func(val T) error {
		if !slices.Contains(allowed, val) {
			return fmt.Errorf("%v is not one of %v", val, allowed)
		}

		return nil
	})
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}
