package cmd

import (
	"github.com/clarechu/sys-assistant/src/server"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func ServerCommand(opts *rootOptions) *cobra.Command {
	var address string
	serverCmd := &cobra.Command{
		Use:               "server",
		Short:             "Serve telemetry, maintenance and Prometheus metrics over HTTP.",
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		Args:              cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Server.Address = address
			}
			orchestrator, err := newOrchestrator(cfg)
			if err != nil {
				return err
			}
			assistant, err := server.NewAssistant(cfg, newProvider(cfg), orchestrator)
			if err != nil {
				return err
			}
			defer klog.Flush()
			return assistant.Run(cmd.Context())
		},
	}
	serverCmd.Flags().StringVar(&address, "address", "", "listen address, overrides server.address")
	return serverCmd
}
