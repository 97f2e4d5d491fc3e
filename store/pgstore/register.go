package pgstore

import "github.com/ajiwo/throttle/store"

func init() {
	store.Register("postgres", func(config any) (store.Store, error) {
		cfg, ok := config.(Config)
		if !ok {
			return nil, store.ErrInvalidConfig
		}
		return New(cfg)
	})
}
