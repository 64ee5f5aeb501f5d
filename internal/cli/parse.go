package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fish-not-phish/eido/pkg/dsl"
	"github.com/fish-not-phish/eido/pkg/errors"
	"github.com/fish-not-phish/eido/pkg/pipeline"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output string // output file path (stdout if empty)
	stats  bool   // print a summary line after the tree
}

// parseOutput is the JSON written by the parse command.
type parseOutput struct {
	Nodes       []dsl.Node       `json:"nodes"`
	Connections []dsl.Connection `json:"connections"`
	Stats       dsl.Stats        `json:"stats"`
}

// parseCommand creates the parse command, which prints the node tree and
// connections of a DSL file as JSON.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse <file" + sourceExt + "|->",
		Short: "Parse a diagram and print its tree as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			src, err := readSource(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := errors.ValidateSource(src, cfg.Server.MaxSourceBytes); err != nil {
				return err
			}
			return c.runParse(cmd.Context(), src, opts, cmd.OutOrStdout(), newConsole(cmd.ErrOrStderr()))
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print a summary of the parsed diagram")

	return cmd
}

func (c *CLI) runParse(ctx context.Context, src string, opts parseOpts, stdout io.Writer, ui console) error {
	d := pipeline.Parse(ctx, src)
	out := newParseOutput(d)

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	data = append(data, '\n')

	if opts.output == "" {
		if _, err := stdout.Write(data); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(opts.output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		ui.success("Parsed diagram")
		ui.wrote(opts.output)
	}

	if opts.stats {
		ui.stats(out.Stats, 0, false)
	}
	return nil
}

// newParseOutput wraps a diagram so empty lists encode as [] rather than null.
func newParseOutput(d *dsl.Diagram) parseOutput {
	out := parseOutput{
		Nodes:       d.Nodes,
		Connections: d.Connections,
		Stats:       d.Stats(),
	}
	if out.Nodes == nil {
		out.Nodes = []dsl.Node{}
	}
	if out.Connections == nil {
		out.Connections = []dsl.Connection{}
	}
	return out
}
