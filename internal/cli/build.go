package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/observability"
)

type buildOpts struct {
	graphName string
	refresh   bool
	quiet     bool
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Extract, render and publish the workspace dependency graph",
		Long: `Build runs the full pipeline: it lists the example packages to exclude,
runs the dependency extractor, renders the graph to SVG and replaces
media/<name>.svg. The directory holding the artifact is printed on success.

Nothing is published if any stage fails or the run is interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.graphName, "name", "n", "", "artifact base name (default from config)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached extractor output")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "print only the artifact directory")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, opts buildOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.graphName != "" {
		cfg.Graph.Name = opts.graphName
	}

	runner, store, err := c.newRunner(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer store.Close()

	popts := cfg.PipelineOptions()
	popts.Refresh = opts.refresh

	prog := newProgress(c.Logger)
	var spinner *Spinner
	if !opts.quiet && c.Logger.GetLevel() > LogDebug {
		spinner = newSpinnerWithContext(ctx, "scanning...")
		observability.SetPipelineHooks(stageHooks{spinner: spinner})
		defer observability.Reset()
		spinner.Start()
	}

	res, err := runner.Execute(ctx, popts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		if !opts.quiet && res != nil && res.FailedStage != "" {
			printError("Build failed while %s", res.FailedStage)
		}
		return err
	}
	if !res.State.Terminal() || res.PublishedPath == "" {
		return errors.New(errors.ErrCodeInternal, "pipeline stopped while %s", res.State)
	}

	dir := filepath.Dir(res.PublishedPath)
	if !opts.quiet {
		printSuccess("Published %s graph", cfg.Graph.Name)
		printFile(relPath(cfg.RepoRoot, res.PublishedPath))
		printStats(res.Excluded.Len(), res.CacheHit, prog.elapsed())
	}
	fmt.Fprintln(cmd.OutOrStdout(), dir)
	return nil
}

// relPath returns path relative to base when possible.
func relPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}

// dotCommand creates the dot command.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output  string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Print the workspace graph description (DOT) without rendering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			runner, store, err := c.newRunner(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer store.Close()

			popts := cfg.PipelineOptions()
			popts.Refresh = refresh
			res, err := runner.Describe(ctx, popts)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(res.Description)
				return err
			}
			if err := os.WriteFile(output, res.Description, 0644); err != nil {
				return err
			}
			c.Logger.Info("wrote graph description", "path", output, "size", res.Description.Summary())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached extractor output")
	return cmd
}
