package cli

import (
	"github.com/spf13/cobra"

	"github.com/uniknow/c4puml/pkg/config"
	"github.com/uniknow/c4puml/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the export HTTP API",
		Long: `Serve listens for POST /v1/export requests carrying workspace JSON and
answers with the rendered diagrams. Export defaults (legend, includes,
sequence) come from c4puml.toml; query parameters override them.`,
		Example: `  c4puml serve --addr :8080
  curl -s --data-binary @workspace.json 'localhost:8080/v1/export?legend=true'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") || cfg.Server.Addr == "" {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			defaults := cfg.PipelineOptions()
			// Posted workspaces are arbitrary and only diagrams are returned.
			defaults.Views, defaults.Formats = nil, nil
			srv := server.New(runner, c.Logger, server.WithDefaults(defaults))
			printInfo("Listening on %s", StyleHighlight.Render(cfg.Server.Addr))
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "project file (default ./"+config.FileName+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
