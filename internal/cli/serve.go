package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ledwall/pkg/project"
	"github.com/matzehuels/ledwall/pkg/server"
)

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		noStore bool
		noCache bool
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

The server exposes the catalog, layout computation, rendering and saved
projects under /v1. The listen address, cache and project store come from
the config file; LEDWALL_SERVER_ADDR, LEDWALL_REDIS_ADDR and
LEDWALL_MONGO_URI override them.`,
		Example: `  ledwall serve --addr :9000
  LEDWALL_REDIS_ADDR=redis:6379 LEDWALL_MONGO_URI=mongodb://mongo:27017 ledwall serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			var store project.Store
			if !noStore {
				if store, err = c.newStore(ctx); err != nil {
					return err
				}
				defer store.Close()
			}

			srv := server.New(runner, store,
				server.WithLogger(c.Logger),
				server.WithStrict(c.cfg.Strict || strict),
				server.WithTimeout(timeout),
			)
			printInfo("Listening on %s", StyleHighlight.Render(addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")
	cmd.Flags().BoolVar(&noStore, "no-projects", false, "disable the /v1/projects routes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject layouts the processors cannot drive")

	return cmd
}
