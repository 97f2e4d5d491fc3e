// Package healthcheck polls a store.Store in the background and reports
// each successful probe to a caller-supplied callback, so a failover store
// can learn when a primary backend has recovered without probing it inline
// on every request.
package healthcheck

import (
	"context"
	"time"

	"github.com/ajiwo/throttle/store"
)

// Checker periodically probes a store.Store with GetWithTime and invokes
// onHealthy whenever a probe succeeds.
type Checker struct {
	backend   store.Store
	config    Config
	stopChan  chan struct{}
	onHealthy func()
}

// NewChecker builds a Checker for backend. Options override config.
func NewChecker(backend store.Store, onHealthy func(), opts ...Option) *Checker {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Checker{
		backend:   backend,
		config:    config,
		stopChan:  make(chan struct{}),
		onHealthy: onHealthy,
	}
}

// Start begins background polling. A zero or negative Interval disables
// polling entirely.
func (c *Checker) Start() {
	if c.config.Interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(c.config.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.probe()
			case <-c.stopChan:
				return
			}
		}
	}()
}

// Stop halts background polling. Safe to call more than once.
func (c *Checker) Stop() {
	select {
	case <-c.stopChan:
	default:
		close(c.stopChan)
	}
}

func (c *Checker) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
	defer cancel()

	testKey := c.config.TestKey
	if testKey == "" {
		testKey = "throttle-health-check"
	}

	_, _, _, err := c.backend.GetWithTime(ctx, testKey)
	if err == nil && c.onHealthy != nil {
		c.onHealthy()
	}
}
