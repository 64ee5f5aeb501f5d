package cli

import (
	"context"
	"fmt"

	"github.com/fish-not-phish/eido/pkg/cache"
	"github.com/fish-not-phish/eido/pkg/config"
	"github.com/fish-not-phish/eido/pkg/store"
)

// openCache builds the artifact cache selected by cfg.Cache.Backend,
// wrapped in snappy compression when enabled.
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	var (
		c   cache.Cache
		err error
	)
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheMemory:
		c = cache.NewMemoryCache()
	case config.CacheFile:
		c, err = cache.NewFileCache(cfg.Cache.Dir)
	case config.CacheRedis:
		c, err = cache.NewRedisCache(ctx, cache.RedisOptions{Addr: cfg.Cache.RedisAddr})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}
	if cfg.Cache.Compress {
		c = cache.Compressed(c)
	}
	return c, nil
}

// openStore builds the file store selected by cfg.Store.Backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	case config.StoreFile:
		s, err := store.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return s, nil
	case config.StoreMongo:
		s, err := store.NewMongoStore(ctx, store.MongoOptions{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.MongoDatabase,
		})
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
