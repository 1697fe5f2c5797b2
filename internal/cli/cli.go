package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ifctree/internal/config"
	"github.com/matzehuels/ifctree/pkg/buildinfo"
	"github.com/matzehuels/ifctree/pkg/cache"
	ierrors "github.com/matzehuels/ifctree/pkg/errors"
	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/pipeline"
	"github.com/matzehuels/ifctree/pkg/store"
	"github.com/matzehuels/ifctree/pkg/store/mongo"
	"github.com/matzehuels/ifctree/pkg/store/sqlite"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "ifctree"
)

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

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer

	configPath string
	config     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "ifctree materializes IFC property tables",
		Long: `ifctree walks the relation graph of an IFC model and assembles, for each
selected element, a tree of its attributes, property and quantity sets,
classifications, materials, tasks and spatial container.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ifctree/config.toml)")

	// Register all subcommands
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.attrsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.modelsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig reads the config file once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	c.config = cfg
	return cfg, nil
}

// newRunner creates a pipeline runner with the configured cache and store.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, *config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	bc, err := newCache(ctx, cfg, noCache, c.Logger)
	if err != nil {
		return nil, nil, err
	}
	st, err := newStore(ctx, cfg)
	if err != nil {
		_ = bc.Close()
		return nil, nil, err
	}
	var keyer cache.Keyer
	if cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.Prefix)
	}
	r := pipeline.NewRunner(bc, keyer, st, c.Logger)
	r.IndexTTL = cfg.Cache.TTL
	return r, cfg, nil
}

// newWorkspace creates a workspace with the configured unit precision.
func newWorkspace(r *pipeline.Runner, cfg *config.Config) *pipeline.Workspace {
	ws := r.NewWorkspace()
	ws.Units().SetDigits(cfg.Units.Digits)
	return ws
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool, logger *log.Logger) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			logger.Debug("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// newStore opens the configured persistent store. The memory backend has no
// persistent store and returns nil.
func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
			return nil, ierrors.Wrap(ierrors.ErrCodeStore, err, "create store directory")
		}
		st, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, ierrors.Wrap(ierrors.ErrCodeStore, err, "open %s", cfg.Store.Path)
		}
		return st, nil
	case config.StoreMongo:
		st, err := mongo.Connect(ctx, cfg.Store.URI, cfg.Store.Database)
		if err != nil {
			return nil, ierrors.Wrap(ierrors.ErrCodeStore, err, "connect mongo")
		}
		return st, nil
	}
	return nil, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/ifctree/).
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

// =============================================================================
// Flag Helpers
// =============================================================================

// parseHandles parses --entity values. Each value may hold several
// comma-separated handles; repeats are dropped.
func parseHandles(values []string) ([]ifc.Handle, error) {
	var out []ifc.Handle
	seen := make(map[ifc.Handle]struct{})
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			h, err := ierrors.ParseHandle(part)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[ifc.Handle(h)]; dup {
				continue
			}
			seen[ifc.Handle(h)] = struct{}{}
			out = append(out, ifc.Handle(h))
		}
	}
	if len(out) == 0 {
		return nil, ierrors.New(ierrors.ErrCodeInvalidInput, "no entity handles given (use -e)")
	}
	return out, nil
}
