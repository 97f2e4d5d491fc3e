package throttle

import (
	"fmt"

	"github.com/ajiwo/throttle/cell"
	"github.com/ajiwo/throttle/store"
)

// Config holds everything needed to build a Limiter: the store backend it
// evaluates against, the GCRA quota it enforces, and an optional namespace
// prefix applied to every key it sees.
type Config struct {
	Store   store.Store
	Quota   cell.RateQuota
	BaseKey string
}

func validateConfig(config Config) error {
	if config.Store == nil {
		return fmt.Errorf("store backend cannot be nil")
	}
	if config.Quota.MaxRate.Zero() {
		return fmt.Errorf("quota rate must be positive")
	}
	if config.Quota.MaxBurst < 0 {
		return fmt.Errorf("max burst cannot be negative")
	}
	return nil
}
