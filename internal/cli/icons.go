package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fish-not-phish/eido/pkg/icons"
)

// iconsCommand creates the icons command, which lists the icon catalogue
// or lets the user pick an icon and prints a declaration that uses it.
func (c *CLI) iconsCommand() *cobra.Command {
	var (
		dir         string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "icons",
		Short: "List available icons or pick one interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("icons") {
				dir = cfg.Icons.Dir
			}

			names, err := icons.NewDir(dir).List()
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("loaded icons", "dir", dir, "count", len(names))

			if !interactive {
				return listIcons(cmd.OutOrStdout(), names)
			}
			if len(names) == 0 {
				newConsole(cmd.ErrOrStderr()).warn("No icons in %s", dir)
				return nil
			}

			p := tea.NewProgram(NewIconListModel(names), tea.WithContext(cmd.Context()))
			finalModel, err := p.Run()
			if err != nil {
				return err
			}

			fm, ok := finalModel.(IconListModel)
			if !ok || fm.Selected == "" {
				newConsole(cmd.ErrOrStderr()).detail("No selection made")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), iconSnippet(fm.Selected))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "icons", "", "icon directory (default from config)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick an icon and print a declaration using it")

	return cmd
}

func listIcons(w io.Writer, names []string) error {
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}
