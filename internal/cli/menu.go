package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wsgraph/pkg/devshell"
	"github.com/matzehuels/wsgraph/pkg/errors"
)

// menuCommand creates the dev-shell menu command.
func (c *CLI) menuCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List the dev-shell commands",
		Long: `Menu prints the development shell's command table grouped by category,
followed by the packages the shell provides. Entries come from the built-in
table and the [menu] section of wsgraph.toml.

With -i an interactive picker runs the chosen command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !interactive {
				fmt.Fprint(cmd.OutOrStdout(), renderMenu(cfg.Menu))
				return nil
			}

			final, err := tea.NewProgram(NewMenuModel(cfg.Menu), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			sel := final.(MenuModel).Selected
			if sel == nil {
				return nil
			}
			return c.runMenuCommand(cmd, *sel, cfg.RepoRoot)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a command interactively")
	cmd.AddCommand(c.menuRunCommand())
	return cmd
}

// menuRunCommand creates the "menu run" subcommand.
func (c *CLI) menuRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <name>",
		Short: "Run a dev-shell command by name",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			var names []string
			for _, mc := range cfg.Menu.Commands {
				names = append(names, mc.Name+"\t"+mc.Help)
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			mc, ok := cfg.Menu.Lookup(args[0])
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "no menu command %q (see wsgraph menu)", args[0])
			}
			return c.runMenuCommand(cmd, mc, cfg.RepoRoot)
		},
	}
}

func (c *CLI) runMenuCommand(cmd *cobra.Command, mc devshell.Command, dir string) error {
	c.Logger.Debug("running menu command", "name", mc.Name, "cmd", mc.Command)
	return devshell.Run(cmd.Context(), mc, dir, devshell.Stdio{
		In:  os.Stdin,
		Out: cmd.OutOrStdout(),
		Err: cmd.ErrOrStderr(),
	})
}
