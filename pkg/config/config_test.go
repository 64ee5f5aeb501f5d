package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fish-not-phish/eido/pkg/cache"
	"github.com/fish-not-phish/eido/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 7*24*time.Hour, cfg.CacheTTL())
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout())
}

func TestDecodeTOML(t *testing.T) {
	path := writeFile(t, "eido.toml", `
[server]
addr = "127.0.0.1:9000"
max_source_bytes = 2048

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "1h"

[log]
level = "debug"
`)
	cfg := Default()
	require.NoError(t, cfg.decodeFile(path))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 2048, cfg.Server.MaxSourceBytes)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.CacheTTL())
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, 1200.0, cfg.Render.CanvasWidth)
}

func TestDecodeYAML(t *testing.T) {
	path := writeFile(t, "eido.yaml", `
store:
  backend: mongo
  mongo_uri: mongodb://localhost:27017
render:
  canvas_width: 900
`)
	cfg := Default()
	require.NoError(t, cfg.decodeFile(path))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, StoreMongo, cfg.Store.Backend)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.MongoURI)
	assert.Equal(t, 900.0, cfg.Render.CanvasWidth)
}

func TestDecodeFileErrors(t *testing.T) {
	tests := []struct {
		name, file, content string
		code                errors.Code
	}{
		{"unknown toml key", "a.toml", "[server]\nport = 1\n", errors.ErrCodeInvalidConfig},
		{"unknown yaml key", "a.yaml", "server:\n  port: 1\n", errors.ErrCodeInvalidConfig},
		{"bad toml", "a.toml", "[server\n", errors.ErrCodeInvalidConfig},
		{"unsupported ext", "a.json", "{}", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default().decodeFile(writeFile(t, tt.file, tt.content))
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}

	err := Default().decodeFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
}

func TestEmptyYAML(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.decodeFile(writeFile(t, "empty.yml", "")))
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"EIDO_SERVER_ADDR":     ":9999",
		"EIDO_CACHE_BACKEND":   "none",
		"EIDO_CACHE_COMPRESS":  "false",
		"EIDO_CANVAS_WIDTH":    "800.5",
		"EIDO_SEED":            "7",
		"EIDO_LOG_LEVEL":       "warn",
		"EIDO_CACHE_NAMESPACE": "staging",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.False(t, cfg.Cache.Compress)
	assert.Equal(t, 800.5, cfg.Render.CanvasWidth)
	assert.Equal(t, uint64(7), cfg.Render.Seed)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "staging", cfg.Cache.Namespace)

	err := Default().ApplyEnv(func(k string) (string, bool) {
		return "lots", k == "EIDO_MAX_SOURCE_BYTES"
	})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestEnvNames(t *testing.T) {
	names := EnvNames()
	assert.Contains(t, names, "EIDO_REDIS_ADDR")
	assert.Contains(t, names, "EIDO_MONGO_URI")
	for _, n := range names {
		assert.Regexp(t, `^EIDO_[A-Z_]+$`, n)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "Cache.Backend"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis; c.Cache.RedisAddr = "" }, "Cache.RedisAddr"},
		{"file cache without dir", func(c *Config) { c.Cache.Backend = CacheFile; c.Cache.Dir = "" }, "Cache.Dir"},
		{"mongo without uri", func(c *Config) { c.Store.Backend = StoreMongo }, "Store.MongoURI"},
		{"mongo bad uri", func(c *Config) { c.Store.Backend = StoreMongo; c.Store.MongoURI = "http://x" }, "Store.MongoURI"},
		{"bad addr", func(c *Config) { c.Server.Addr = "nope" }, "Server.Addr"},
		{"bad ttl", func(c *Config) { c.Cache.TTL = "soon" }, "Cache.TTL"},
		{"zero canvas", func(c *Config) { c.Render.CanvasWidth = 0 }, "Render.CanvasWidth"},
		{"negative max source", func(c *Config) { c.Server.MaxSourceBytes = -1 }, "Server.MaxSourceBytes"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "Log.Level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
			assert.Contains(t, errors.UserMessage(err), tt.field)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("EIDO_STORE_BACKEND=file\n"), 0644))
	t.Setenv("EIDO_LOG_LEVEL", "error")
	defer os.Unsetenv("EIDO_STORE_BACKEND")

	path := writeFile(t, "eido.toml", "[log]\nlevel = \"debug\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level, "environment beats file")
	assert.Equal(t, StoreFile, cfg.Store.Backend, ".env is applied")
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
}

func TestCacheKeyer(t *testing.T) {
	opts := cache.ArtifactKeyOpts{Format: "excalidraw", CanvasWidth: 1200, Seed: 42}
	plain := Default().CacheKeyer().ArtifactKey("abc", opts)

	cfg := Default()
	cfg.Cache.Namespace = "staging"
	scoped := cfg.CacheKeyer().ArtifactKey("abc", opts)

	assert.Equal(t, "staging:"+plain, scoped)
}
