// Package failover composes two store.Store backends — a preferred primary
// and a fallback secondary — behind a circuit breaker, so a Limiter built on
// top keeps evaluating rate limits through an outage of its primary store.
package failover

import (
	"context"
	"errors"
	"time"

	"github.com/ajiwo/throttle/healthcheck"
	"github.com/ajiwo/throttle/store"
)

var (
	// ErrNoPrimary is returned by New when config.Primary is nil.
	ErrNoPrimary = errors.New("failover: primary store is required")
	// ErrNoSecondary is returned by New when config.Secondary is nil.
	ErrNoSecondary = errors.New("failover: secondary store is required")
)

// Config configures a failover Store. HealthCheck tunes the primary's
// background probe; unlike healthcheck.NewChecker, New treats a zero
// HealthCheck.Interval or Timeout as "use the default" (10s and 2s), so
// only a negative Interval disables polling.
type Config struct {
	Primary        store.Store
	Secondary      store.Store
	CircuitBreaker BreakerConfig
	HealthCheck    healthcheck.Config
}

// Store routes store.Store operations to Primary while its circuit breaker
// is closed, and to Secondary once consecutive primary failures trip it
// open. A background healthcheck.Checker probes Primary and closes the
// breaker again once it recovers.
//
// Within a single Limiter.RateLimit call the breaker's routing decision can
// change between the GetWithTime and the CompareAndSwapWithTTL/
// SetIfNotExistsWithTTL calls it makes for the same key, if the primary
// trips or recovers mid-evaluation. The evaluator tolerates this: a stale
// oldValue read from one store simply fails the CAS against the other and
// the retry loop re-reads, at the cost of one extra attempt.
type Store struct {
	primary   store.Store
	secondary store.Store
	breaker   *circuitBreaker
	checker   *healthcheck.Checker
}

// New builds a failover Store and starts its background health checker
// against Primary.
func New(config Config) (*Store, error) {
	if config.Primary == nil {
		return nil, ErrNoPrimary
	}
	if config.Secondary == nil {
		return nil, ErrNoSecondary
	}
	if config.CircuitBreaker.FailureThreshold <= 0 {
		config.CircuitBreaker.FailureThreshold = 5
	}
	if config.CircuitBreaker.RecoveryTimeout <= 0 {
		config.CircuitBreaker.RecoveryTimeout = 30 * time.Second
	}

	s := &Store{
		primary:   config.Primary,
		secondary: config.Secondary,
		breaker:   newCircuitBreaker(config.CircuitBreaker),
	}

	interval := config.HealthCheck.Interval
	if interval == 0 {
		interval = 10 * time.Second
	}
	timeout := config.HealthCheck.Timeout
	if timeout == 0 {
		timeout = 2 * time.Second
	}
	opts := []healthcheck.Option{
		healthcheck.WithInterval(interval),
		healthcheck.WithTimeout(timeout),
	}
	if config.HealthCheck.TestKey != "" {
		opts = append(opts, healthcheck.WithTestKey(config.HealthCheck.TestKey))
	}
	s.checker = healthcheck.NewChecker(s.primary, s.onPrimaryHealthy, opts...)
	s.checker.Start()

	return s, nil
}

func (s *Store) onPrimaryHealthy() {
	if s.breaker.getState() == stateOpen {
		s.breaker.close()
	}
}

// GetWithTime satisfies store.Store, routing per current breaker state.
func (s *Store) GetWithTime(ctx context.Context, key string) (string, bool, time.Time, error) {
	if s.breaker.isOpen() {
		return s.secondary.GetWithTime(ctx, key)
	}
	value, present, now, err := s.primary.GetWithTime(ctx, key)
	if s.breaker.shouldTrip(err) {
		return s.secondary.GetWithTime(ctx, key)
	}
	s.closeIfHalfOpen()
	return value, present, now, err
}

// SetIfNotExistsWithTTL satisfies store.Store, routing per current breaker
// state.
func (s *Store) SetIfNotExistsWithTTL(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if s.breaker.isOpen() {
		return s.secondary.SetIfNotExistsWithTTL(ctx, key, value, ttl)
	}
	created, err := s.primary.SetIfNotExistsWithTTL(ctx, key, value, ttl)
	if s.breaker.shouldTrip(err) {
		return s.secondary.SetIfNotExistsWithTTL(ctx, key, value, ttl)
	}
	s.closeIfHalfOpen()
	return created, err
}

// CompareAndSwapWithTTL satisfies store.Store, routing per current breaker
// state.
func (s *Store) CompareAndSwapWithTTL(ctx context.Context, key, oldValue, newValue string, ttl time.Duration) (bool, error) {
	if s.breaker.isOpen() {
		return s.secondary.CompareAndSwapWithTTL(ctx, key, oldValue, newValue, ttl)
	}
	swapped, err := s.primary.CompareAndSwapWithTTL(ctx, key, oldValue, newValue, ttl)
	if s.breaker.shouldTrip(err) {
		return s.secondary.CompareAndSwapWithTTL(ctx, key, oldValue, newValue, ttl)
	}
	s.closeIfHalfOpen()
	return swapped, err
}

func (s *Store) closeIfHalfOpen() {
	if s.breaker.getState() == stateHalfOpen {
		s.breaker.close()
	}
}

// State reports the breaker's current routing state, for metrics/logging.
func (s *Store) State() string {
	switch s.breaker.getState() {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Close stops the background health checker and closes both stores, if they
// implement io.Closer-shaped Close() error methods.
func (s *Store) Close() error {
	if s.checker != nil {
		s.checker.Stop()
	}
	var firstErr error
	if c, ok := s.primary.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			firstErr = err
		}
	}
	if c, ok := s.secondary.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
