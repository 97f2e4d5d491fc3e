package healthcheck

import "time"

// Option configures a Config via NewChecker.
type Option func(*Config)

// WithInterval sets the polling interval.
func WithInterval(interval time.Duration) Option {
	return func(c *Config) { c.Interval = interval }
}

// WithTimeout sets the per-probe timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.Timeout = timeout }
}

// WithTestKey sets the key probed on each check.
func WithTestKey(testKey string) Option {
	return func(c *Config) { c.TestKey = testKey }
}
