package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/leadguard/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(newConfigCheckCmd())
	return cmd
}

func newConfigCheckCmd() *cobra.Command {
	var flags configFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load and validate a configuration file",
		Args:  cobra.NoArgs,
		Example: `  leadguard config check --config leadguard.toml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context(), flags.path, flags.envFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: ok\n", flags.path)
			fmt.Fprintf(out, "  listen      %s\n", cfg.Server.Addr)
			fmt.Fprintf(out, "  caches      %v (ttl %s)\n", cfg.Cache.Allowed, cfg.Cache.TTL)
			fmt.Fprintf(out, "  fail open   recaptcha=%t zerobounce=%t\n", cfg.Recaptcha.FailOpen, cfg.ZeroBounce.FailOpen)
			fmt.Fprintf(out, "  admin keys  %d\n", len(cfg.Admin.APIKeys))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
