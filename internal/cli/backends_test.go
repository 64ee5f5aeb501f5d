package cli

import (
	"context"
	"testing"

	"github.com/fish-not-phish/eido/pkg/cache"
	"github.com/fish-not-phish/eido/pkg/config"
	"github.com/fish-not-phish/eido/pkg/store"
)

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Backend = config.CacheNone
		cfg.Cache.Compress = true
		c, err := openCache(ctx, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := c.(*cache.NullCache); !ok {
			t.Errorf("cache = %T, want *cache.NullCache", c)
		}
	})

	t.Run("memory compressed", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Backend = config.CacheMemory
		cfg.Cache.Compress = true
		c, err := openCache(ctx, cfg)
		if err != nil {
			t.Fatal(err)
		}
		cc, ok := c.(*cache.CompressedCache)
		if !ok {
			t.Fatalf("cache = %T, want *cache.CompressedCache", c)
		}
		if _, ok := cc.Unwrap().(*cache.MemoryCache); !ok {
			t.Errorf("inner cache = %T, want *cache.MemoryCache", cc.Unwrap())
		}
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Backend = config.CacheFile
		cfg.Cache.Dir = t.TempDir()
		cfg.Cache.Compress = false
		c, err := openCache(ctx, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := c.(*cache.FileCache); !ok {
			t.Errorf("cache = %T, want *cache.FileCache", c)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Backend = "tape"
		if _, err := openCache(ctx, cfg); err == nil {
			t.Error("expected error for unknown backend")
		}
	})
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	s, err := openStore(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*store.MemoryStore); !ok {
		t.Errorf("default store = %T, want *store.MemoryStore", s)
	}

	cfg.Store.Backend = config.StoreFile
	cfg.Store.Dir = t.TempDir()
	s, err = openStore(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*store.FileStore); !ok {
		t.Errorf("store = %T, want *store.FileStore", s)
	}

	cfg.Store.Backend = "tape"
	if _, err := openStore(ctx, cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}
