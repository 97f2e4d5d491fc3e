package healthcheck

import "time"

// Config controls how a Checker polls a store.Store for liveness.
type Config struct {
	Interval time.Duration // polling frequency; <= 0 disables the checker
	Timeout  time.Duration // per-probe context deadline
	TestKey  string        // key probed with GetWithTime
}

// DefaultConfig returns sensible defaults for periodic backend polling.
func DefaultConfig() Config {
	return Config{
		Interval: 10 * time.Second,
		Timeout:  2 * time.Second,
		TestKey:  "throttle-health-check",
	}
}
