package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wsgraph/pkg/exclude"
	"github.com/matzehuels/wsgraph/pkg/workspace"
)

// excludesCommand creates the excludes command.
func (c *CLI) excludesCommand() *cobra.Command {
	var names bool

	cmd := &cobra.Command{
		Use:   "excludes",
		Short: "Print the extractor exclusion arguments for the examples directory",
		Long: `Excludes lists the directories under the examples directory and prints
them as extractor arguments ("--exclude a --exclude b"). With --names it
prints one package name per line instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			excluded, err := workspace.Scan(afero.NewOsFs(), cfg.WorkspaceRoot(), cfg.Workspace.ExamplesDir)
			if err != nil {
				return err
			}

			frag := exclude.New(excluded)
			out := cmd.OutOrStdout()
			if names {
				if len(frag) > 0 {
					fmt.Fprintln(out, strings.Join(frag.Names(), "\n"))
				}
				return nil
			}
			fmt.Fprintln(out, frag.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&names, "names", false, "print package names, one per line")
	return cmd
}
