package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackorder/pkg/api"
	"github.com/matzehuels/stackorder/pkg/appstate"
	"github.com/matzehuels/stackorder/pkg/buildinfo"
	"github.com/matzehuels/stackorder/pkg/settings"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr         string
		settingsFile string
		noCache      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes ordering, order checking and the tool-settings store over HTTP
until interrupted.

  POST /v1/order     order a working set
  POST /v1/check     validate an order
  GET  /v1/settings  current tool settings
  PUT  /v1/settings  replace tool settings
  GET  /healthz      liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			initial := settings.Default()
			if settingsFile != "" {
				s, err := loadSettingsFile(settingsFile)
				if err != nil {
					return err
				}
				initial = s
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			cfg := api.DefaultConfig()
			cfg.Addr = c.Config.Server.Addr
			if addr != "" {
				cfg.Addr = addr
			}
			cfg.ReadTimeout = c.Config.Server.ReadTimeout.Duration
			cfg.WriteTimeout = c.Config.Server.WriteTimeout.Duration
			cfg.Version = buildinfo.Get().Version

			logger.Debug("starting api", "cache", c.Config.Cache.Backend, "settings", settingsFile)
			return api.New(runner, appstate.New(initial), logger, cfg).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&settingsFile, "settings", "", "initial tool settings file (JSON or TOML)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")

	return cmd
}
