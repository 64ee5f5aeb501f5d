package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/snappy"
)

// CompressedCache wraps a Cache and snappy-compresses values at rest.
// Excalidraw documents are verbose JSON and shrink several times over.
type CompressedCache struct {
	inner Cache
}

// Compressed wraps inner with snappy compression.
func Compressed(inner Cache) *CompressedCache {
	return &CompressedCache{inner: inner}
}

// Get retrieves and decompresses a value. An entry that fails to decode is
// deleted and reported as a miss.
func (c *CompressedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		_ = c.inner.Delete(ctx, key)
		return nil, false, nil
	}
	return out, true, nil
}

// Set compresses and stores a value.
func (c *CompressedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.inner.Set(ctx, key, snappy.Encode(nil, data), ttl); err != nil {
		return fmt.Errorf("compressed set: %w", err)
	}
	return nil
}

// Delete removes a value.
func (c *CompressedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Close closes the wrapped cache.
func (c *CompressedCache) Close() error {
	return c.inner.Close()
}

// Unwrap returns the wrapped cache.
func (c *CompressedCache) Unwrap() Cache {
	return c.inner
}

var _ Cache = (*CompressedCache)(nil)
