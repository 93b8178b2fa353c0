// Package config loads the seqdist configuration file.
//
// The file is TOML and every key is optional:
//
//	[engine]
//	strategy = "hash"   # hash | sort
//	kind = "text"       # text | strings | ints | floats | bools | bytes
//
//	[cache]
//	backend = "file"    # file | redis | none
//	dir = ""            # file backend, defaults to $XDG_CACHE_HOME/seqdist
//	redis_addr = "localhost:6379"
//	redis_db = 0
//	prefix = "seqdist:"
//
//	[store]
//	backend = "none"    # memory | mongo | none
//	mongo_uri = "mongodb://localhost:27017"
//	database = "seqdist"
//	collection = "results"
//
//	[server]
//	addr = ":8080"
//	max_length = 1000000
//	read_timeout = "30s"
//	write_timeout = "1m"
//
//	[batch]
//	workers = 4
//
// A missing file yields [Default]. Command-line flags override file values.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/seqdist/pkg/errors"
	"github.com/matzehuels/seqdist/pkg/kendall"
	"github.com/matzehuels/seqdist/pkg/pipeline"
)

// AppName names the config and cache directories.
const AppName = "seqdist"

// Backend names.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Config is the effective configuration.
type Config struct {
	Engine Engine `toml:"engine"`
	Cache  Cache  `toml:"cache"`
	Store  Store  `toml:"store"`
	Server Server `toml:"server"`
	Batch  Batch  `toml:"batch"`
}

// Engine holds computation defaults.
type Engine struct {
	Strategy string `toml:"strategy"`
	Kind     string `toml:"kind"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir,omitempty"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
	Prefix    string `toml:"prefix"`
}

// Store selects and configures the result history.
type Store struct {
	Backend    string `toml:"backend"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures `seqdist serve`.
type Server struct {
	Addr         string        `toml:"addr"`
	MaxLength    int           `toml:"max_length"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Batch configures batch runs.
type Batch struct {
	Workers int `toml:"workers"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: Engine{Strategy: kendall.StrategyNameHash, Kind: pipeline.DefaultKind},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			Prefix:    AppName + ":",
		},
		Store: Store{
			Backend:    BackendNone,
			MongoURI:   "mongodb://localhost:27017",
			Database:   AppName,
			Collection: "results",
		},
		Server: Server{
			Addr:         ":8080",
			MaxLength:    pipeline.DefaultMaxLength,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: time.Minute,
		},
		Batch: Batch{Workers: pipeline.DefaultWorkers},
	}
}

// Path returns the default config file location:
// $XDG_CONFIG_HOME/seqdist/config.toml or ~/.config/seqdist/config.toml.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads the config file at path over [Default]. An empty path means
// [Path]. A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "open config")
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a config from r over [Default] and validates it.
// Unknown keys are rejected.
func Read(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidFormat,
			"unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values and numeric ranges.
func (c Config) Validate() error {
	if _, err := kendall.ParseStrategy(c.Engine.Strategy); err != nil {
		return err
	}
	if err := pipeline.ValidateKind(c.Engine.Kind); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case BackendMemory, BackendMongo, BackendNone:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	if c.Server.MaxLength < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "server.max_length must not be negative")
	}
	return apperrors.ValidateWorkers(c.Batch.Workers)
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// String returns c as TOML.
func (c Config) String() string {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return err.Error()
	}
	return buf.String()
}
