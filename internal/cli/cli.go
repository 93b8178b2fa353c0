package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdist/pkg/buildinfo"
	"github.com/matzehuels/seqdist/pkg/cache"
	"github.com/matzehuels/seqdist/pkg/config"
	"github.com/matzehuels/seqdist/pkg/observability"
	"github.com/matzehuels/seqdist/pkg/pipeline"
	"github.com/matzehuels/seqdist/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// cacheKeyVersion scopes cache keys to the current payload layout.
const cacheKeyVersion = "v1:"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level. Debug level also reports callers.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportCaller(level <= log.DebugLevel)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "seqdist measures Kendall tau distances between sequences",
		Long: `seqdist computes the Kendall tau sequence distance: the minimum number of
adjacent swaps that turn one sequence into another holding the same elements.
Sequences may repeat elements and may hold text, tokens, numbers, booleans
or bytes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
			observability.NewLogHooks(c.Logger).Install()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/seqdist/config.toml)")

	// Register all subcommands
	root.AddCommand(c.distanceCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.permCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the loaded config. History is
// only kept when withStore is set.
func (c *CLI) newRunner(ctx context.Context, noCache, withStore bool) (*pipeline.Runner, error) {
	ch := c.newCache(ctx, noCache)
	var st store.Store
	if withStore {
		var err error
		if st, err = c.newStore(ctx); err != nil {
			_ = ch.Close()
			return nil, err
		}
	}
	logger := loggerFromContext(ctx)
	if reason, off := cache.DisabledReason(ch); off {
		logger.Debug("caching disabled", "reason", reason)
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cacheKeyVersion)
	return pipeline.NewRunner(ch, keyer, st, logger), nil
}

// newCache opens the configured cache. Failures degrade to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache("--no-cache")
	}
	logger := loggerFromContext(ctx)
	switch c.cfg.Cache.Backend {
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   c.cfg.Cache.RedisAddr,
			DB:     c.cfg.Cache.RedisDB,
			Prefix: c.cfg.Cache.Prefix,
		})
		if err != nil {
			logger.Warn("redis cache unavailable, caching disabled", "err", err)
			return cache.NewNullCache("redis unavailable")
		}
		return rc
	case config.BackendFile:
		dir, err := c.fileCacheDir()
		if err != nil {
			logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache("no cache directory")
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			logger.Warn("file cache unavailable, caching disabled", "dir", dir, "err", err)
			return cache.NewNullCache("file cache unavailable")
		}
		return fc
	default:
		return cache.NewNullCache("backend " + c.cfg.Cache.Backend)
	}
}

// newStore opens the configured result history, nil when disabled.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	switch c.cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(store.DefaultMemoryCapacity), nil
	case config.BackendMongo:
		return store.NewMongoStore(ctx, store.MongoOptions{
			URI:        c.cfg.Store.MongoURI,
			Database:   c.cfg.Store.Database,
			Collection: c.cfg.Store.Collection,
		})
	default:
		return nil, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/seqdist/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// fileCacheDir returns the configured file cache directory, or cacheDir.
func (c *CLI) fileCacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// options returns pipeline options with the config's engine defaults.
func (c *CLI) options() pipeline.Options {
	return pipeline.Options{
		Kind:     c.cfg.Engine.Kind,
		Strategy: c.cfg.Engine.Strategy,
	}
}
