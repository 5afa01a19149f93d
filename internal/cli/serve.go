package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/wsgraph/pkg/preview"
)

// serveCommand creates the preview server command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the published graph for preview in a browser",
		Long: `Serve starts a local HTTP server showing media/<name>.svg. POST /build
reruns the pipeline; GET /graph.dot returns a fresh graph description.
The server stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Preview.Addr
			}

			runner, store, err := c.newRunner(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer store.Close()

			srv, err := preview.New(runner, cfg.PipelineOptions(), c.Logger)
			if err != nil {
				return err
			}
			printInfo("Preview at %s", StyleLink.Render("http://"+addr))
			printNextStep("Rebuild from another shell", "curl -X POST http://"+addr+"/build")
			return srv.Serve(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
