package cli

import (
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// completionShells maps each supported shell to its script generator and a
// one-line install hint shown in the command help.
var completionShells = map[string]struct {
	gen  func(root *cobra.Command, w io.Writer) error
	hint string
}{
	"bash": {
		gen:  func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
		hint: "source <(eido completion bash)",
	},
	"zsh": {
		gen:  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
		hint: `eido completion zsh > "${fpath[1]}/_eido"`,
	},
	"fish": {
		gen:  func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
		hint: "eido completion fish > ~/.config/fish/completions/eido.fish",
	},
	"powershell": {
		gen:  func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
		hint: "eido completion powershell | Out-String | Invoke-Expression",
	},
}

func (c *CLI) completionCommand() *cobra.Command {
	shells := make([]string, 0, len(completionShells))
	for name := range completionShells {
		shells = append(shells, name)
	}
	sort.Strings(shells)

	var long strings.Builder
	long.WriteString("Print a shell completion script for " + appName + " to stdout.\n\n")
	for _, name := range shells {
		long.WriteString("  " + name + ":\n    $ " + completionShells[name].hint + "\n")
	}

	return &cobra.Command{
		Use:                   "completion [" + strings.Join(shells, "|") + "]",
		Short:                 "Generate shell completion scripts",
		Long:                  long.String(),
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]].gen(cmd.Root(), cmd.OutOrStdout())
		},
	}
}
