// Package redisstore implements the evaluator's storage contract
// (package store) against Redis, for deployments that run the limiter
// detached from any single host process and need genuine
// optimistic-concurrency CAS against a shared backend.
package redisstore

import (
	_ "embed"
	"fmt"
	"time"

	"context"

	"github.com/redis/go-redis/v9"

	"github.com/ajiwo/throttle/store"
)

//go:embed cas.lua
var casScript string

// Config configures a Store backed by a single Redis server.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	// RedisURL, when set, supplies the base connection options; any of
	// the individual fields above that is non-zero overrides the value
	// parsed from the URL.
	RedisURL string
	// ConnErrorStrings overrides the default connectivity-error patterns
	// used to classify failures as HealthError.
	ConnErrorStrings []string
}

// Store implements store.Store against Redis. Unlike the in-host adapter,
// its compare-and-swap is evaluated server-side via an embedded Lua
// script, so it is genuinely atomic even with multiple concurrent
// evaluators across processes.
type Store struct {
	client           redis.UniversalClient
	script           *redis.Script
	connErrorStrings []string
}

var connErrorStrings = []string{
	"connection refused",
	"connection timeout",
	"connection reset",
	"network is unreachable",
	"no such host",
	"timeout",
	"i/o timeout",
	"broken pipe",
	"connection pool exhausted",
}

// New connects to Redis per config and verifies connectivity with a Ping.
func New(config Config) (*Store, error) {
	var client redis.UniversalClient

	if config.RedisURL != "" {
		options, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redisstore: parse redis url: %w", err)
		}
		if config.Addr != "" {
			options.Addr = config.Addr
		}
		if config.Password != "" {
			options.Password = config.Password
		}
		if config.DB != 0 {
			options.DB = config.DB
		}
		if config.PoolSize != 0 {
			options.PoolSize = config.PoolSize
		}
		client = redis.NewClient(options)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     config.Addr,
			Password: config.Password,
			DB:       config.DB,
			PoolSize: config.PoolSize,
		})
	}

	patterns := config.ConnErrorStrings
	if patterns == nil {
		patterns = connErrorStrings
	}

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, store.NewHealthError("redis:Ping", err)
	}

	return &Store{
		client:           client,
		script:           redis.NewScript(casScript),
		connErrorStrings: patterns,
	}, nil
}

// Close releases the underlying Redis client.
func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("redisstore: close: %w", err)
	}
	return nil
}

func (s *Store) maybeConnError(op string, err error) error {
	return store.MaybeConnError(op, err, s.connErrorStrings)
}

// GetWithTime reads key and the server's clock in a single round trip, so
// the evaluator's notion of "now" is Redis's clock, not the caller's.
func (s *Store) GetWithTime(ctx context.Context, key string) (string, bool, time.Time, error) {
	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	timeCmd := pipe.Time(ctx)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return "", false, time.Time{}, s.maybeConnError("redis:GetWithTime", err)
	}

	now, err := timeCmd.Result()
	if err != nil {
		return "", false, time.Time{}, s.maybeConnError("redis:Time", err)
	}

	value, err := getCmd.Result()
	if err == redis.Nil {
		return "", false, now, nil
	}
	if err != nil {
		return "", false, time.Time{}, s.maybeConnError("redis:Get", err)
	}
	return value, true, now, nil
}

// SetIfNotExistsWithTTL is CompareAndSwapWithTTL with an empty oldValue,
// the teacher's convention for "set if not exists" over the same CAS
// script.
func (s *Store) SetIfNotExistsWithTTL(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.checkAndSet(ctx, key, "", value, ttl)
}

// CompareAndSwapWithTTL swaps key's value from oldValue to newValue
// atomically, server-side, via the embedded Lua script.
func (s *Store) CompareAndSwapWithTTL(ctx context.Context, key, oldValue, newValue string, ttl time.Duration) (bool, error) {
	return s.checkAndSet(ctx, key, oldValue, newValue, ttl)
}

func (s *Store) checkAndSet(ctx context.Context, key, oldValue, newValue string, ttl time.Duration) (bool, error) {
	ttlMs := "0"
	if ttl > 0 {
		ttlMs = fmt.Sprintf("%d", ttl.Milliseconds())
	}

	result, err := s.script.Run(ctx, s.client, []string{key}, oldValue, newValue, ttlMs).Result()
	if err != nil {
		return false, s.maybeConnError("redis:CheckAndSet", err)
	}

	n, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("redisstore: unexpected script result type %T", result)
	}
	return n == 1, nil
}
