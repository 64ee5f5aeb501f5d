// Package cache provides pluggable storage for rendered diagram artifacts.
//
// Parsing and rendering are pure functions of the DSL source and the render
// options, so their output can be cached under a content-addressed key.
// The [Cache] interface is a plain byte store; backends include a directory
// of files for the CLI ([FileCache]), an in-process map for a single server
// ([MemoryCache]), Redis for a shared deployment ([RedisCache]) and a no-op
// ([NullCache]). [Compressed] wraps any backend with snappy compression.
//
// Keys are produced by a [Keyer], and [ScopedKeyer] namespaces them when
// several tenants share one backend.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"time"
)

// Cache is a byte store with per-entry expiration.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero or less means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLs for cached data.
const (
	// ArtifactTTL applies to rendered documents. Rendering is deterministic,
	// so entries only expire to bound storage.
	ArtifactTTL = 7 * 24 * time.Hour
)

// ArtifactKeyOpts holds every render option that changes the output bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	CanvasWidth float64 `json:"canvas_width"`
	Seed        uint64  `json:"seed"`
	IconSet     string  `json:"icon_set,omitempty"`
	IDPrefix    string  `json:"id_prefix,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key for a rendered artifact of the source
	// with the given hash.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements [Keyer]. Keys look like "artifact:<sha256>" over
// the source hash and the JSON form of opts, so adding an option field
// changes every key.
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	h := sha256.New()
	io.WriteString(h, sourceHash)
	h.Write([]byte{'\n'})
	_ = json.NewEncoder(h).Encode(opts)
	return artifactKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

const artifactKeyPrefix = "artifact:"

var _ Keyer = DefaultKeyer{}

// Hash returns the hex SHA-256 of data. Runners key artifacts by the hash of
// their DSL source.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// =============================================================================
// NullCache
// =============================================================================

// NullCache never stores anything. It backs --no-cache renders and the
// "none" cache backend, and is the runner's default.
type NullCache struct{}

// NewNullCache returns a cache on which every Get misses.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
