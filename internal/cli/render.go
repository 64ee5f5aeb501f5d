package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fish-not-phish/eido/pkg/config"
	"github.com/fish-not-phish/eido/pkg/errors"
	"github.com/fish-not-phish/eido/pkg/icons"
	"github.com/fish-not-phish/eido/pkg/pipeline"
)

// formatExts maps output formats to the file extension used for derived
// output paths.
var formatExts = map[string]string{
	pipeline.FormatExcalidraw: ".excalidraw",
	pipeline.FormatDOT:        ".dot",
	pipeline.FormatSVG:        ".svg",
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string  // output file; derived from the input when empty, "-" for stdout
	format      string  // excalidraw, dot or svg
	iconsDir    string  // directory of <name>.png icons
	canvasWidth float64 // right edge of the top-level packing area
	seed        uint64  // seed for element seeds and nonces
	detailed    bool    // icon names in preview labels
	noCache     bool    // bypass the render cache entirely
	refresh     bool    // re-render and overwrite the cached entry
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.DefaultFormat}

	cmd := &cobra.Command{
		Use:   "render <file" + sourceExt + "|->",
		Short: "Render a diagram to Excalidraw, DOT or SVG",
		Long: `Render a diagram to an Excalidraw scene (default), or to a Graphviz
node-link preview as DOT source or SVG.

The output path defaults to the input path with the format's extension.
Use -o - to write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			applyConfigDefaults(cmd, cfg, &opts)
			return c.runRender(cmd.Context(), cfg, args[0], opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with format extension, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: excalidraw, dot, svg")
	cmd.Flags().StringVar(&opts.iconsDir, "icons", "", "icon directory (default from config)")
	cmd.Flags().Float64Var(&opts.canvasWidth, "canvas-width", 0, "canvas width in pixels (default from config)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed for element seeds (default from config)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show icon names in preview labels (dot, svg)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached result exists")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{pipeline.FormatExcalidraw, pipeline.FormatDOT, pipeline.FormatSVG}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// applyConfigDefaults fills flags the user did not set from the config.
func applyConfigDefaults(cmd *cobra.Command, cfg *config.Config, opts *renderOpts) {
	if !cmd.Flags().Changed("icons") {
		opts.iconsDir = cfg.Icons.Dir
	}
	if !cmd.Flags().Changed("canvas-width") {
		opts.canvasWidth = cfg.Render.CanvasWidth
	}
	if !cmd.Flags().Changed("seed") {
		opts.seed = cfg.Render.Seed
	}
}

func (c *CLI) runRender(ctx context.Context, cfg *config.Config, input string, opts renderOpts, stdout, stderr io.Writer) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	ui := newConsole(stderr)

	src, err := readSource(ctx, input)
	if err != nil {
		return err
	}

	runner := c.newRunner(cfg, opts.noCache)
	defer runner.Close()

	spinner := startSpinner(ctx, stderr, "Rendering "+displayName(input)+"...")
	res, err := runner.Execute(ctx, src, pipeline.Options{
		Format:      opts.format,
		CanvasWidth: opts.canvasWidth,
		Seed:        opts.seed,
		Detailed:    opts.detailed,
		Refresh:     opts.refresh,
		Icons:       icons.NewDir(opts.iconsDir),
		IconSet:     iconSetKey(opts.iconsDir),
		Logger:      logger,
	})
	if err != nil {
		spinner.Stop()
		ui.fail("Render failed")
		return err
	}
	spinner.Stop()

	output := outputPath(opts.output, input, opts.format)
	if output == "-" {
		_, err := stdout.Write(res.Artifact)
		return err
	}
	if err := os.WriteFile(output, res.Artifact, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "failed to write %s", output)
	}

	prog.done("Rendered " + displayName(input))
	ui.success("Rendered %s", opts.format)
	ui.wrote(output)
	ui.stats(res.Stats.Stats, res.Stats.Elements, res.CacheHit)
	if opts.format == pipeline.FormatExcalidraw {
		ui.hint("Open it", "https://excalidraw.com → Open → "+filepath.Base(output))
	}
	return nil
}

// outputPath picks the destination for a render. Stdin input with no
// explicit output goes to stdout.
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	if input == "-" {
		return "-"
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + formatExts[format]
}

// iconSetKey identifies an icon directory in cache keys. Absolute paths keep
// two checkouts with different icons from sharing entries.
func iconSetKey(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func displayName(input string) string {
	if input == "-" {
		return "stdin"
	}
	return filepath.Base(input)
}
