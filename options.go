package throttle

import (
	"fmt"

	"github.com/ajiwo/throttle/cell"
	"github.com/ajiwo/throttle/store"
)

// Option is a functional option for configuring a Limiter.
type Option func(*Config) error

// WithStore sets the backend the limiter evaluates against.
func WithStore(s store.Store) Option {
	return func(config *Config) error {
		if s == nil {
			return fmt.Errorf("store cannot be nil")
		}
		config.Store = s
		return nil
	}
}

// WithQuota sets the GCRA quota (burst + steady-state rate) to enforce.
func WithQuota(quota cell.RateQuota) Option {
	return func(config *Config) error {
		config.Quota = quota
		return nil
	}
}

// WithBaseKey sets a namespace prefix joined with ":" onto every key passed
// to Allow, so multiple limiters can share one store without colliding.
func WithBaseKey(key string) Option {
	return func(config *Config) error {
		if err := validateBaseKey(key); err != nil {
			return err
		}
		config.BaseKey = key
		return nil
	}
}
