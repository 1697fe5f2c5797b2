// Package config loads the ifctree configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/ifctree/config.toml
// (~/.config/ifctree/config.toml when XDG_CONFIG_HOME is unset). IFCTREE_CONFIG
// overrides the location. Every field is optional; a missing file yields
// [Default].
//
//	[units]
//	display = true
//	digits = 0                  # 0 keeps per-unit precision
//
//	[materialize]
//	workers = 8
//
//	[store]
//	backend = "sqlite"          # memory | sqlite | mongo
//	path = "~/.local/share/ifctree/models.db"
//	uri = "mongodb://localhost:27017"
//	database = "ifctree"
//
//	[cache]
//	backend = "file"            # file | redis | none
//	dir = "~/.cache/ifctree"
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//	prefix = ""                 # key prefix for shared backends
//
//	[server]
//	addr = ":8080"
//	session_ttl = "30m"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	ierrors "github.com/matzehuels/ifctree/pkg/errors"
)

const appName = "ifctree"

// EnvPath names the environment variable that overrides the config location.
const EnvPath = "IFCTREE_CONFIG"

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the parsed configuration file.
type Config struct {
	Units       Units       `toml:"units"`
	Materialize Materialize `toml:"materialize"`
	Store       Store       `toml:"store"`
	Cache       Cache       `toml:"cache"`
	Server      Server      `toml:"server"`
}

type Units struct {
	Display bool `toml:"display"`
	Digits  int  `toml:"digits"`
}

type Materialize struct {
	Workers int `toml:"workers"`
}

type Store struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

type Cache struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`

	// Prefix scopes every cache key, so several deployments can share one
	// redis instance.
	Prefix string `toml:"prefix"`
}

type Server struct {
	Addr       string        `toml:"addr"`
	SessionTTL time.Duration `toml:"session_ttl"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Units:       Units{Display: true},
		Materialize: Materialize{Workers: 8},
		Store:       Store{Backend: StoreMemory, Database: appName},
		Cache:       Cache{Backend: CacheFile, TTL: 7 * 24 * time.Hour},
		Server:      Server{Addr: ":8080", SessionTTL: 30 * time.Minute},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at Path. A missing file is not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path on top of Default. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(string(data), cfg); err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeInvalidInput, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML into cfg and validates the result. Fields absent from
// data keep their current values.
func Parse(data string, cfg *Config) error {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(names, ", "))
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	return cfg.Validate()
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the sqlite backend")
		}
	case StoreMongo:
		if c.Store.URI == "" {
			return errors.New("store.uri is required for the mongo backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache.backend %q", c.Cache.Backend)
	}
	if c.Materialize.Workers < 0 {
		return errors.New("materialize.workers must not be negative")
	}
	if c.Units.Digits < 0 {
		return errors.New("units.digits must not be negative")
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
