package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/ifctree/internal/metrics"
	"github.com/matzehuels/ifctree/internal/server"
	"github.com/matzehuels/ifctree/pkg/pipeline"
)

// serveCommand creates the serve command, which exposes the loaded models
// over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve [MODEL...]",
		Short: "Serve models over HTTP",
		Long: `Serve models over HTTP.

The given models are loaded at startup; clients open a session and post
selections to materialize. Prometheus metrics are exposed at /metrics.`,
		Example: `  ifctree serve office.json
  ifctree serve office.json warehouse --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			l, err := c.open(ctx, args, noCache)
			if err != nil {
				return err
			}
			defer l.Close()

			if addr == "" {
				addr = l.cfg.Server.Addr
			}
			scfg := server.Config{
				Options: pipeline.Options{
					DisplayUnits: l.cfg.Units.Display,
					Workers:      l.cfg.Materialize.Workers,
				},
				SessionTTL: l.cfg.Server.SessionTTL,
			}
			if !noMetrics {
				m := metrics.New()
				m.Register()
				scfg.Metrics = m.Handler()
				scfg.OnSessions = m.SetSessions
			}

			srv := server.New(l.runner, l.ws, scfg, loggerFromContext(ctx))
			printInfo("Serving %d models on %s", len(l.models), addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
