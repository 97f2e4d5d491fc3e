package redisstore

import "github.com/ajiwo/throttle/store"

func init() {
	store.Register("redis", func(config any) (store.Store, error) {
		cfg, ok := config.(Config)
		if !ok {
			return nil, store.ErrInvalidConfig
		}
		return New(cfg)
	})
}
