package main

import (
	"github.com/spf13/cobra"

	"github.com/jonwraymond/leadguard/config"
	"github.com/jonwraymond/leadguard/observe"
)

type configFlags struct {
	path    string
	envFile string
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "config", "c", "leadguard.toml", "Path to the TOML configuration")
	cmd.Flags().StringVar(&f.envFile, "env-file", "", "Optional .env file loaded before the configuration")
}

func newServeCmd() *cobra.Command {
	var flags configFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		Example: `  leadguard serve --config /etc/leadguard/leadguard.toml
  leadguard serve -c leadguard.toml --env-file .env`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx, flags.path, flags.envFile)
			if err != nil {
				return err
			}

			a, err := build(ctx, cfg, version)
			if err != nil {
				return err
			}
			defer a.close()

			a.logger.Info(ctx, "leadguard starting",
				observe.Field{Key: "version", Value: version},
				observe.Field{Key: "caches", Value: a.registry.Names()},
				observe.Field{Key: "admin", Value: len(cfg.Admin.APIKeys) > 0},
			)
			return a.server.Run(ctx)
		},
	}
	flags.register(cmd)
	return cmd
}
