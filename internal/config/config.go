// Package config loads stackorder's configuration file.
//
// Settings are resolved in three steps: [Default], then the TOML file, then
// environment overrides. A missing file is not an error.
//
//	[cache]
//	backend = "redis"        # file | redis | mongo | none
//	ttl = "168h"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = "127.0.0.1:8080"
//	read_timeout = "30s"
//
//	[order]
//	break_cycles = false
//
// Environment overrides: STACKORDER_CACHE, STACKORDER_REDIS_URL,
// STACKORDER_MONGO_URI, STACKORDER_ADDR.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/stackorder/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "stackorder"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Environment variables that override file settings.
const (
	EnvCache    = "STACKORDER_CACHE"
	EnvRedisURL = "STACKORDER_REDIS_URL"
	EnvMongoURI = "STACKORDER_MONGO_URI"
	EnvAddr     = "STACKORDER_ADDR"
)

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full configuration.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Order  OrderConfig  `toml:"order"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	TTL           Duration `toml:"ttl"`
	Dir           string   `toml:"dir"`
	RedisURL      string   `toml:"redis_url"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
}

// ServerConfig configures `stackorder serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// OrderConfig holds ordering defaults for the CLI.
type OrderConfig struct {
	BreakCycles bool `toml:"break_cycles"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Backend:       BackendFile,
			TTL:           Duration{7 * 24 * time.Hour},
			MongoDatabase: AppName,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
		},
	}
}

// Path returns the default config file location,
// $XDG_CONFIG_HOME/stackorder/config.toml or ~/.config/stackorder/config.toml.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the default file cache directory,
// $XDG_CACHE_HOME/stackorder or ~/.cache/stackorder.
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads path (or [Path] when empty) over [Default] and applies
// environment overrides. A missing default file is ignored; a missing
// explicit path is FILE_NOT_FOUND. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "locate config file")
		}
		path = p
	}

	if err := cfg.loadFile(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
		if explicit {
			return cfg, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
	}

	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvCache); ok && v != "" {
		c.Cache.Backend = v
	}
	if v, ok := lookup(EnvRedisURL); ok && v != "" {
		c.Cache.RedisURL = v
		if _, set := lookup(EnvCache); !set {
			c.Cache.Backend = BackendRedis
		}
	}
	if v, ok := lookup(EnvMongoURI); ok && v != "" {
		c.Cache.MongoURI = v
		if _, set := lookup(EnvCache); !set {
			c.Cache.Backend = BackendMongo
		}
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
}

// Validate checks backend names, URLs and durations.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if err := apperrors.ValidateURL(c.Cache.RedisURL, "redis", "rediss", "unix"); err != nil {
			return invalid(err, "cache.redis_url")
		}
	case BackendMongo:
		if err := apperrors.ValidateURL(c.Cache.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return invalid(err, "cache.mongo_uri")
		}
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig,
			"cache.backend: unknown backend %q (want file, redis, mongo or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Server.Addr == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	if c.Server.ReadTimeout.Duration < 0 || c.Server.WriteTimeout.Duration < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "server timeouts must not be negative")
	}
	return nil
}

func invalid(err error, field string) error {
	return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "%s", field)
}

// String renders the config as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
