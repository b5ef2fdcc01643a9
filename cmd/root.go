package cmd

import (
	goflag "flag"

	"github.com/clarechu/sys-assistant/cmd/version"
	"github.com/clarechu/sys-assistant/src/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

type rootOptions struct {
	configPath string
	logFile    string
}

func GetRootCmd(args []string) *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:               "sys-assistant",
		Short:             "System assistant: live telemetry and package maintenance.",
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		Long: `sys-assistant shows live CPU, memory and disk usage and runs the
package-manager update and cleanup operations, as a terminal dashboard,
a one-shot report, a foreground command or an HTTP API.

Without a subcommand the dashboard is started.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, opts)
		},
	}
	rootCmd.SetArgs(args)
	addFlags(rootCmd.PersistentFlags(), opts)

	rootCmd.AddCommand(DashboardCommand(opts))
	rootCmd.AddCommand(InfoCommand(opts))
	rootCmd.AddCommand(MaintainCommand(opts))
	rootCmd.AddCommand(ServerCommand(opts))
	rootCmd.AddCommand(version.VersionCommand(args))

	return rootCmd
}

// addFlags registers the global flags, including klog's.
func addFlags(fs *pflag.FlagSet, opts *rootOptions) {
	fs.StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	fs.StringVar(&opts.logFile, "log-file", "", "dashboard log file; dashboard logs are discarded when empty")

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	fs.AddGoFlagSet(klogFlags)
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("config: poll every %s, package manager %s", cfg.Poll.Interval, cfg.Maintenance.PackageManager)
	return cfg, nil
}
