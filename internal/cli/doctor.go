package cli

import (
	"context"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wsgraph/pkg/cache"
	"github.com/matzehuels/wsgraph/pkg/config"
	"github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/fonts"
	"github.com/matzehuels/wsgraph/pkg/render"
	"github.com/matzehuels/wsgraph/pkg/tools"
	"github.com/matzehuels/wsgraph/pkg/workspace"
)

// doctorCommand creates the doctor command.
func (c *CLI) doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check tools, the examples directory and workspace membership",
		Long: `Doctor verifies everything the build needs before running it:

  - the extractor and renderer resolve on PATH
  - the examples directory exists
  - every example directory is a workspace member, so excluding it matters
  - example names are usable as extractor arguments
  - bundled fonts are present and extra font directories exist
  - the cache backend is reachable

Problems that would make the build fail are errors; the rest are warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if failed := c.runDoctor(cmd.Context(), cfg); failed > 0 {
				return errors.New(errors.ErrCodeConfiguration, "%d check(s) failed", failed)
			}
			return nil
		},
	}
}

// runDoctor prints one line per check and returns the number of failures.
func (c *CLI) runDoctor(ctx context.Context, cfg *config.Config) int {
	fs := afero.NewOsFs()
	failed := 0
	fail := func(format string, args ...any) {
		failed++
		printError(format, args...)
	}

	printKeyValue("repository", cfg.RepoRoot)
	printKeyValue("workspace", cfg.WorkspaceRoot())
	printNewline()

	if tool, err := tools.Resolve(cfg.Tools.Extractor); err != nil {
		fail("extractor: %s", errors.UserMessage(err))
	} else {
		printSuccess("extractor %s", tool)
	}

	if cfg.Tools.Backend == render.BackendBuiltin {
		printSuccess("renderer: builtin graphviz")
	} else if tool, err := tools.Resolve(cfg.Tools.Renderer); err != nil {
		fail("renderer: %s", errors.UserMessage(err))
		printDetail("set tools.backend = \"builtin\" to render without Graphviz installed")
	} else {
		printSuccess("renderer %s", tool)
	}

	printSuccess("fonts: %d bundled %s face(s)", len(fonts.Bundled()), fonts.FontFamily)
	for _, dir := range cfg.FontDirs() {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			fail("font directory %s missing", dir)
		}
	}

	excluded, err := workspace.Scan(fs, cfg.WorkspaceRoot(), cfg.Workspace.ExamplesDir)
	if err != nil {
		fail("examples: %s", errors.UserMessage(err))
	} else {
		printSuccess("examples: %d package(s) excluded", excluded.Len())
		for _, name := range excluded {
			if err := errors.ValidatePackageName(name); err != nil {
				printWarning("example %q: %s", name, errors.UserMessage(err))
			}
		}
		c.checkMembers(fs, cfg, excluded)
	}

	if err := c.checkCache(ctx, cfg); err != nil {
		fail("cache (%s): %v", cfg.Cache.Backend, err)
	} else {
		printSuccess("cache: %s", cfg.Cache.Backend)
	}

	return failed
}

// checkMembers warns about example directories the manifest does not list;
// excluding those is a no-op.
func (c *CLI) checkMembers(fs afero.Fs, cfg *config.Config, excluded workspace.ExcludedSet) {
	members, err := workspace.Members(fs, cfg.WorkspaceRoot())
	if err != nil {
		printWarning("manifest: %s", errors.UserMessage(err))
		return
	}
	unlisted := workspace.Unlisted(members, cfg.Workspace.ExamplesDir, excluded)
	if len(unlisted) == 0 {
		printSuccess("manifest: %d member(s), all examples listed", len(members))
		return
	}
	for _, name := range unlisted {
		printWarning("example %q is not a workspace member", name)
	}
}

func (c *CLI) checkCache(ctx context.Context, cfg *config.Config) error {
	store, err := c.newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	_, _, err = store.Get(ctx, cache.Hash([]byte("wsgraph-doctor")))
	return err
}
