package store

import "errors"

// ErrInvalidConfig is returned by a registered Factory when it is handed
// a config value of the wrong type.
var ErrInvalidConfig = errors.New("store: invalid backend config")
