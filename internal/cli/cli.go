// Package cli implements the ledwall command-line interface.
//
// # Commands
//
//   - compute: calculate a wall layout and print its summary
//   - render: write pixel maps, cabling diagrams and reports
//   - catalog: list and edit module and processor types
//   - project: manage saved wall configurations
//   - pick: choose a module and processor interactively
//   - serve: run the HTTP API
//   - cache: manage the layout and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// registers log hooks for pipeline and cache events. Loggers are passed
// through context.Context.
package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ledwall/pkg/buildinfo"
	"github.com/matzehuels/ledwall/pkg/cache"
	"github.com/matzehuels/ledwall/pkg/catalog"
	"github.com/matzehuels/ledwall/pkg/config"
	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/observability"
	"github.com/matzehuels/ledwall/pkg/pipeline"
	"github.com/matzehuels/ledwall/pkg/project"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// defaultCatalogFile is the user catalog used when neither --catalog nor the
// config file names one. It lives next to config.toml.
const defaultCatalogFile = "catalog.toml"

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	catalogPath string
	cfg         config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "ledwall",
		Short: "ledwall plans LED video walls",
		Long: `ledwall calculates LED video wall layouts: resolution and aspect ratio,
processor capacity, multi-processor allocation, serpentine data cabling,
power, weight and rigging.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ledwall/config.toml)")
	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", "", "catalog file layered over the built-in modules and processors")

	root.AddCommand(c.computeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	c.registerCompletions(root)

	return root
}

// loadConfig reads the config file and applies the --catalog override.
// Debug logging also turns on the observability log hooks.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.catalogPath != "" {
		cfg.Catalog = c.catalogPath
	}
	c.cfg = cfg

	if c.Logger.GetLevel() <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
	return nil
}

// =============================================================================
// Catalog
// =============================================================================

// catalogFile returns the user catalog path.
func (c *CLI) catalogFile() (string, error) {
	if c.cfg.Catalog != "" {
		return c.cfg.Catalog, nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), defaultCatalogFile), nil
}

// userCatalog loads the user catalog file. A missing file is an empty catalog.
func (c *CLI) userCatalog() (catalog.Catalog, string, error) {
	path, err := c.catalogFile()
	if err != nil {
		return catalog.Catalog{}, "", err
	}
	user, err := catalog.LoadFile(path)
	if errors.Is(err, errors.ErrCodeNotFound) {
		return catalog.New(), path, nil
	}
	if err != nil {
		return catalog.Catalog{}, path, err
	}
	return user, path, nil
}

// loadCatalog returns the built-in catalog merged with the user catalog.
func (c *CLI) loadCatalog() (catalog.Catalog, error) {
	path, err := c.catalogFile()
	if err != nil {
		return catalog.Catalog{}, err
	}
	cat, err := catalog.Load(path)
	if errors.Is(err, errors.ErrCodeNotFound) {
		return catalog.Defaults(), nil
	}
	return cat, err
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cat, err := c.loadCatalog()
	if err != nil {
		return nil, err
	}
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.cfg.Cache.Prefix)
	}
	runner := pipeline.NewRunner(backend, keyer, c.Logger)
	runner.Catalog = cat
	runner.TTL = c.cfg.Cache.TTL
	return runner, nil
}

// newCache opens the configured cache backend. A file cache that cannot
// resolve its directory degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr: c.cfg.Cache.RedisAddr,
			DB:   c.cfg.Cache.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir, err := c.cfg.CacheDir()
		if err != nil {
			c.Logger.Warn("cache directory unavailable, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// newStore opens the configured project store.
func (c *CLI) newStore(ctx context.Context) (project.Store, error) {
	if c.cfg.Store.Backend == config.StoreMongo {
		ms, err := project.NewMongoStore(ctx, c.cfg.Store.MongoURI, c.cfg.Store.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	dir, err := c.cfg.StoreDir()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "resolve project directory")
	}
	fs, err := project.NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
