// Package envutil loads configuration structs from environment variables.
//
// Fields are bound with `env` and `envDefault` struct tags. Types that
// implement encoding.TextUnmarshaler, such as slog.Level, are parsed
// through it.
package envutil

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ErrInvalidValue is wrapped by every load failure.
var ErrInvalidValue = errors.New("invalid environment configuration")

// Load fills a T from the process environment.
func Load[T any]() (T, error) {
	cfg, err := env.ParseAs[T]()
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	return cfg, nil
}

// LoadFrom fills a T from environ instead of the process environment.
func LoadFrom[T any](environ map[string]string) (T, error) {
	cfg, err := env.ParseAsWithOptions[T](env.Options{Environment: environ})
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	return cfg, nil
}
