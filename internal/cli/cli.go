package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fish-not-phish/eido/pkg/buildinfo"
	"github.com/fish-not-phish/eido/pkg/cache"
	"github.com/fish-not-phish/eido/pkg/config"
	"github.com/fish-not-phish/eido/pkg/errors"
	"github.com/fish-not-phish/eido/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "eido"

	// sourceExt is the conventional extension of DSL files.
	sourceExt = ".eido"
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

	// configPath is the --config flag. Empty means defaults plus environment.
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Eido turns architecture descriptions into Excalidraw diagrams",
		Long:          `Eido reads a small text language of services, containers and connections and lays it out as an editable Excalidraw scene, or as a Graphviz preview.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml or .yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.iconsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Run executes the command line args and returns the process exit status.
// Failures are reported once on stderr.
func (c *CLI) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil && !stderrors.Is(err, context.Canceled) {
		newConsole(stderr).fail("%s", errors.UserMessage(err))
	}
	return errors.ExitCode(err)
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig reads the --config file, or defaults plus EIDO_* overrides when
// none was given.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil && c.Logger.GetLevel() > lvl {
		c.Logger.SetLevel(lvl)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use. The CLI always uses the
// on-disk cache so repeated renders of the same file are instant.
func (c *CLI) newRunner(cfg *config.Config, noCache bool) *pipeline.Runner {
	r := pipeline.NewRunner(newFileCache(cfg, noCache, c.Logger), cfg.CacheKeyer(), c.Logger)
	r.MaxSourceBytes = cfg.Server.MaxSourceBytes
	r.TTL = cfg.CacheTTL()
	return r
}

func newFileCache(cfg *config.Config, noCache bool, logger *log.Logger) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		logger.Warn("cache disabled", "dir", cfg.Cache.Dir, "error", err)
		return cache.NewNullCache()
	}
	if cfg.Cache.Compress {
		return cache.Compressed(fc)
	}
	return fc
}

// readSource reads DSL source from path, or from stdin when path is "-".
func readSource(ctx context.Context, path string) (string, error) {
	logger := loggerFromContext(ctx)
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	logger.Debug("read source", "path", path, "bytes", len(data))
	return string(data), nil
}
