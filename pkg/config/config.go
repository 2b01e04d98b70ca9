// Package config loads the ledwall configuration file.
//
// The file lives at $XDG_CONFIG_HOME/ledwall/config.toml (falling back to
// ~/.config/ledwall/config.toml). A missing file yields [Default]. A handful
// of environment variables override the file so containers can be
// configured without mounting one:
//
//	LEDWALL_REDIS_ADDR   cache.redis_addr (and selects the redis backend)
//	LEDWALL_MONGO_URI    store.mongo_uri (and selects the mongo backend)
//	LEDWALL_SERVER_ADDR  server.addr
//	LEDWALL_STRICT       strict
//
// Example:
//
//	catalog = "~/.config/ledwall/catalog.toml"
//	strict = false
//
//	[defaults]
//	module = "arakur-p29"
//	processor = "vx600"
//	pattern = "horizontal-right"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	prefix = "staging:"
//	ttl = "24h"
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ledwall/pkg/errors"
)

// AppName is used for XDG directories and the config file location.
const AppName = "ledwall"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Project store backends.
const (
	StoreFile  = "file"
	StoreMongo = "mongo"
)

// Config is the decoded configuration file.
type Config struct {
	// Catalog is a TOML or JSON catalog file layered over the built-in defaults.
	Catalog string `toml:"catalog"`
	// Strict turns capacity warnings into errors.
	Strict   bool           `toml:"strict"`
	Defaults DefaultsConfig `toml:"defaults"`
	Cache    CacheConfig    `toml:"cache"`
	Store    StoreConfig    `toml:"store"`
	Server   ServerConfig   `toml:"server"`
}

// DefaultsConfig holds the layout values used when a command does not set them.
type DefaultsConfig struct {
	Module          string `toml:"module"`
	Processor       string `toml:"processor"`
	Pattern         string `toml:"pattern"`
	ColorScheme     string `toml:"color_scheme"`
	GroupIndexStart int    `toml:"group_index_start"`
}

type CacheConfig struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	RedisDB   int           `toml:"redis_db"`
	TTL       time.Duration `toml:"ttl"`
	// Prefix scopes cache keys so several deployments can share one Redis.
	Prefix string `toml:"prefix"`
}

type StoreConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Defaults: DefaultsConfig{
			Module:          "arakur-p29",
			Processor:       "vx600",
			Pattern:         "horizontal-right",
			ColorScheme:     "cyan-magenta",
			GroupIndexStart: 1,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     7 * 24 * time.Hour,
		},
		Store: StoreConfig{
			Backend:       StoreFile,
			MongoDatabase: AppName,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads the configuration at path. An empty path means [DefaultPath].
// A missing file is not an error. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if _, err := toml.Decode(string(data), &cfg); err != nil {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
			}
		case os.IsNotExist(err):
		default:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	cfg.Catalog = expandHome(cfg.Catalog)
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	cfg.Store.Dir = expandHome(cfg.Store.Dir)
	return cfg, cfg.Validate()
}

// ApplyEnv applies LEDWALL_* overrides using getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("LEDWALL_REDIS_ADDR"); v != "" {
		c.Cache.Backend = CacheRedis
		c.Cache.RedisAddr = v
	}
	if v := getenv("LEDWALL_MONGO_URI"); v != "" {
		c.Store.Backend = StoreMongo
		c.Store.MongoURI = v
	}
	if v := getenv("LEDWALL_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("LEDWALL_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Strict = b
		}
	}
}

// Validate checks backend names and required connection settings.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires cache.redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "", StoreFile:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store backend mongo requires store.mongo_uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	if c.Defaults.GroupIndexStart < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "defaults.group_index_start cannot be negative")
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns the XDG config file location.
func DefaultPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the cache directory: cache.dir if set, else
// $XDG_CACHE_HOME/ledwall (~/.cache/ledwall).
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// StoreDir returns the project directory: store.dir if set, else
// $XDG_DATA_HOME/ledwall/projects (~/.local/share/ledwall/projects).
func (c Config) StoreDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "projects"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
