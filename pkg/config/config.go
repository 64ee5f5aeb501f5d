// Package config loads Eido's runtime configuration.
//
// Values are layered, later layers winning:
//
//  1. [Default]
//  2. A TOML or YAML file, chosen by extension
//  3. EIDO_* environment variables, including any set by a .env file
//  4. Command-line flags (applied by the CLI)
//
// [Config.Validate] checks the result with struct tags, so a bad backend
// name or a missing Redis address fails at startup instead of on first use.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/fish-not-phish/eido/pkg/cache"
	"github.com/fish-not-phish/eido/pkg/errors"
)

// Backend names.
const (
	CacheNone   = "none"
	CacheFile   = "file"
	CacheMemory = "memory"
	CacheRedis  = "redis"

	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Config is the complete runtime configuration.
type Config struct {
	Server ServerConfig `toml:"server" yaml:"server"`
	Icons  IconsConfig  `toml:"icons" yaml:"icons"`
	Render RenderConfig `toml:"render" yaml:"render"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Store  StoreConfig  `toml:"store" yaml:"store"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string `toml:"addr" yaml:"addr" validate:"required,hostname_port"`
	MaxSourceBytes  int    `toml:"max_source_bytes" yaml:"max_source_bytes" validate:"gte=0"`
	ShutdownTimeout string `toml:"shutdown_timeout" yaml:"shutdown_timeout" validate:"omitempty,duration"`
}

// IconsConfig locates the icon assets.
type IconsConfig struct {
	Dir string `toml:"dir" yaml:"dir"`
}

// RenderConfig holds scene defaults.
type RenderConfig struct {
	CanvasWidth float64 `toml:"canvas_width" yaml:"canvas_width" validate:"gt=0"`
	Seed        uint64  `toml:"seed" yaml:"seed"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend" yaml:"backend" validate:"oneof=none file memory redis"`
	Dir       string `toml:"dir" yaml:"dir" validate:"required_if=Backend file"`
	RedisAddr string `toml:"redis_addr" yaml:"redis_addr" validate:"required_if=Backend redis,omitempty,hostname_port"`
	TTL       string `toml:"ttl" yaml:"ttl" validate:"omitempty,duration"`
	Compress  bool   `toml:"compress" yaml:"compress"`

	// Namespace prefixes every cache key, for deployments sharing a backend.
	Namespace string `toml:"namespace" yaml:"namespace" validate:"omitempty,max=64"`
}

// StoreConfig selects the diagram file store backend.
type StoreConfig struct {
	Backend       string `toml:"backend" yaml:"backend" validate:"oneof=memory file mongo"`
	Dir           string `toml:"dir" yaml:"dir"`
	MongoURI      string `toml:"mongo_uri" yaml:"mongo_uri" validate:"required_if=Backend mongo,omitempty,startswith=mongodb"`
	MongoDatabase string `toml:"mongo_database" yaml:"mongo_database"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `toml:"level" yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			MaxSourceBytes:  1 << 20,
			ShutdownTimeout: "10s",
		},
		Icons: IconsConfig{Dir: "icons"},
		Render: RenderConfig{
			CanvasWidth: 1200,
			Seed:        42,
		},
		Cache: CacheConfig{
			Backend:  CacheMemory,
			Dir:      DefaultCacheDir(),
			TTL:      "168h",
			Compress: true,
		},
		Store: StoreConfig{
			Backend:       StoreMemory,
			MongoDatabase: "eido",
		},
		Log: LogConfig{Level: "info"},
	}
}

// CacheKeyer returns the artifact keyer, scoped to Cache.Namespace when set.
func (c *Config) CacheKeyer() cache.Keyer {
	if c.Cache.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Namespace+":")
}

// DefaultCacheDir returns the per-user cache directory for Eido.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "eido-cache")
	}
	return filepath.Join(dir, "eido")
}

// Load builds a configuration from defaults, the optional file at path,
// the .env file in the working directory and the environment.
func Load(path string) (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads variables from the given .env files (".env" by default)
// without overriding ones already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", f)
		}
	}
	return nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !stderrors.Is(err, io.EOF) {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}
	return nil
}

// CacheTTL returns the parsed cache TTL. Zero leaves the pipeline default.
func (c *Config) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.TTL)
	return d
}

// ShutdownTimeout returns the parsed graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// =============================================================================
// Validation
// =============================================================================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "%s", formatValidationError(err))
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !stderrors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err.Error()
	}

	// Report the first failure only.
	e := validationErrs[0]
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s: field is required", field)
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s], got %q", field, e.Param(), e.Value())
	case "hostname_port":
		return fmt.Sprintf("%s: must be host:port, got %q", field, e.Value())
	case "duration":
		return fmt.Sprintf("%s: invalid duration %q", field, e.Value())
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s: must be at least %s", field, e.Param())
	case "startswith":
		return fmt.Sprintf("%s: must start with %q", field, e.Param())
	default:
		return fmt.Sprintf("%s: failed %s validation", field, e.Tag())
	}
}
