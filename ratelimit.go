// Package throttle is a convenience facade over package cell for callers
// embedding GCRA rate limiting directly into a Go program, without going
// through the CL.THROTTLE command surface (package command/server). It
// mirrors the functional-options construction style of the rest of this
// module's public API.
package throttle

import (
	"context"
	"fmt"

	"github.com/ajiwo/throttle/cell"
)

// Limiter wraps a cell.Limiter with a namespace prefix applied to every
// key.
type Limiter struct {
	limiter *cell.Limiter
	baseKey string
}

// New builds a Limiter from functional options. WithStore and WithQuota
// are required; WithBaseKey is optional.
func New(opts ...Option) (*Limiter, error) {
	config := Config{}
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, fmt.Errorf("throttle: %w", err)
		}
	}
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("throttle: %w", err)
	}

	limiter, err := cell.NewLimiter(config.Quota, config.Store)
	if err != nil {
		return nil, fmt.Errorf("throttle: %w", err)
	}

	return &Limiter{limiter: limiter, baseKey: config.BaseKey}, nil
}

// Allow evaluates and consumes quantity units for key, returning whether
// the request is throttled and the resulting GCRA state.
func (l *Limiter) Allow(ctx context.Context, key string, quantity int64) (bool, cell.RateLimitResult, error) {
	return l.limiter.RateLimit(ctx, l.namespacedKey(key), quantity)
}

func (l *Limiter) namespacedKey(key string) string {
	if l.baseKey == "" {
		return key
	}
	return l.baseKey + ":" + key
}
