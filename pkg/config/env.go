package config

import (
	"strconv"

	"github.com/fish-not-phish/eido/pkg/errors"
)

// EnvPrefix prefixes every environment variable Eido reads.
const EnvPrefix = "EIDO_"

type envVar struct {
	name string
	set  func(c *Config, v string) error
}

func str(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

var envVars = []envVar{
	{"SERVER_ADDR", str(func(c *Config) *string { return &c.Server.Addr })},
	{"SHUTDOWN_TIMEOUT", str(func(c *Config) *string { return &c.Server.ShutdownTimeout })},
	{"MAX_SOURCE_BYTES", func(c *Config, v string) (err error) {
		c.Server.MaxSourceBytes, err = strconv.Atoi(v)
		return err
	}},
	{"ICONS_DIR", str(func(c *Config) *string { return &c.Icons.Dir })},
	{"CANVAS_WIDTH", func(c *Config, v string) (err error) {
		c.Render.CanvasWidth, err = strconv.ParseFloat(v, 64)
		return err
	}},
	{"SEED", func(c *Config, v string) (err error) {
		c.Render.Seed, err = strconv.ParseUint(v, 10, 64)
		return err
	}},
	{"CACHE_BACKEND", str(func(c *Config) *string { return &c.Cache.Backend })},
	{"CACHE_DIR", str(func(c *Config) *string { return &c.Cache.Dir })},
	{"CACHE_TTL", str(func(c *Config) *string { return &c.Cache.TTL })},
	{"CACHE_COMPRESS", func(c *Config, v string) (err error) {
		c.Cache.Compress, err = strconv.ParseBool(v)
		return err
	}},
	{"CACHE_NAMESPACE", str(func(c *Config) *string { return &c.Cache.Namespace })},
	{"REDIS_ADDR", str(func(c *Config) *string { return &c.Cache.RedisAddr })},
	{"STORE_BACKEND", str(func(c *Config) *string { return &c.Store.Backend })},
	{"STORE_DIR", str(func(c *Config) *string { return &c.Store.Dir })},
	{"MONGO_URI", str(func(c *Config) *string { return &c.Store.MongoURI })},
	{"MONGO_DATABASE", str(func(c *Config) *string { return &c.Store.MongoDatabase })},
	{"LOG_LEVEL", str(func(c *Config) *string { return &c.Log.Level })},
}

// ApplyEnv overrides fields from EIDO_* variables found by lookup.
// Pass os.LookupEnv in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, ev := range envVars {
		v, ok := lookup(EnvPrefix + ev.name)
		if !ok {
			continue
		}
		if err := ev.set(c, v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s=%q", EnvPrefix, ev.name, v)
		}
	}
	return nil
}

// EnvNames lists every variable ApplyEnv reads.
func EnvNames() []string {
	names := make([]string, len(envVars))
	for i, ev := range envVars {
		names[i] = EnvPrefix + ev.name
	}
	return names
}
