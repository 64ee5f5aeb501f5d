package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fish-not-phish/eido/internal/server"
	"github.com/fish-not-phish/eido/pkg/config"
	"github.com/fish-not-phish/eido/pkg/icons"
	"github.com/fish-not-phish/eido/pkg/metrics"
	"github.com/fish-not-phish/eido/pkg/observability"
	"github.com/fish-not-phish/eido/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		iconsDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("icons") {
				cfg.Icons.Dir = iconsDir
			}
			return c.runServe(cmd.Context(), cfg, newConsole(cmd.ErrOrStderr()))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&iconsDir, "icons", "", "icon directory (default from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config, ui console) error {
	logger := loggerFromContext(ctx)

	artifacts, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	files, err := openStore(ctx, cfg)
	if err != nil {
		_ = artifacts.Close()
		return err
	}
	defer files.Close()

	m := metrics.NewRegistry()
	defer observability.Register(m)()

	runner := pipeline.NewRunner(artifacts, cfg.CacheKeyer(), logger)
	runner.MaxSourceBytes = cfg.Server.MaxSourceBytes
	runner.TTL = cfg.CacheTTL()
	defer runner.Close()

	iconDir := icons.NewDir(cfg.Icons.Dir)
	iconSet, err := filepath.Abs(cfg.Icons.Dir)
	if err != nil {
		iconSet = cfg.Icons.Dir
	}

	srv := server.New(server.Options{
		Runner:          runner,
		Store:           files,
		Icons:           iconDir,
		Logger:          logger,
		Metrics:         m.Handler(),
		IconSet:         iconSet,
		CanvasWidth:     cfg.Render.CanvasWidth,
		Seed:            cfg.Render.Seed,
		MaxSourceBytes:  cfg.Server.MaxSourceBytes,
		ShutdownTimeout: cfg.ShutdownTimeout(),
	})

	ui.info("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
	ui.field("cache", cfg.Cache.Backend)
	ui.field("store", cfg.Store.Backend)
	ui.field("icons", cfg.Icons.Dir)
	ui.blank()

	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		return err
	}
	ui.success("Server stopped")
	return nil
}
