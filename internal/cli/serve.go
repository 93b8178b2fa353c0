package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdist/pkg/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the distance API over HTTP",
		Long: `Serve the distance API over HTTP until interrupted.

Routes:
  GET  /healthz
  POST /v1/distance
  POST /v1/explain
  POST /v1/batch
  POST /v1/permutations/kendall
  GET  /v1/results

Cache and result history backends come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, false, true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close(ctx)

			cfg := server.Config{
				Addr:         c.cfg.Server.Addr,
				MaxLength:    c.cfg.Server.MaxLength,
				Workers:      c.cfg.Batch.Workers,
				ReadTimeout:  c.cfg.Server.ReadTimeout,
				WriteTimeout: c.cfg.Server.WriteTimeout,
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return server.New(runner, cfg, logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}
