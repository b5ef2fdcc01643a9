package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/clarechu/sys-assistant/src/models"
	"github.com/clarechu/sys-assistant/src/sysinfo"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func InfoCommand(opts *rootOptions) *cobra.Command {
	var output string
	infoCmd := &cobra.Command{
		Use:               "info",
		Short:             "Print host, CPU, memory and disk information once.",
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		Args:              cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" {
				return fmt.Errorf("unknown output format %q, want text or json", output)
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			report, err := collectReport(cmd, newProvider(cfg))
			if err != nil {
				return err
			}
			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}
	infoCmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return infoCmd
}

func collectReport(cmd *cobra.Command, provider *sysinfo.Provider) (*models.SystemReport, error) {
	report := &models.SystemReport{}
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() (err error) {
		report.Host, err = provider.HostInfo(ctx)
		return err
	})
	g.Go(func() (err error) {
		report.CPU, err = provider.CPUInfo(ctx)
		return err
	})
	g.Go(func() (err error) {
		report.Memory, err = provider.MemoryInfo(ctx)
		return err
	})
	g.Go(func() (err error) {
		report.Disks, err = provider.DiskPartitions(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func writeReport(out io.Writer, r *models.SystemReport) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "System Information")
	fmt.Fprintf(w, "  System:\t%s\n", r.Host.System)
	fmt.Fprintf(w, "  Hostname:\t%s\n", r.Host.Hostname)
	fmt.Fprintf(w, "  Release:\t%s\n", r.Host.Release)
	fmt.Fprintf(w, "  Version:\t%s\n", r.Host.Version)
	fmt.Fprintf(w, "  Machine:\t%s\n", r.Host.Machine)
	fmt.Fprintf(w, "  Processor:\t%s\n", r.Host.Processor)
	fmt.Fprintf(w, "  Boot time:\t%s\n", r.Host.BootTimeString())
	fmt.Fprintf(w, "  Uptime:\t%s\n", r.Host.UptimeString())

	fmt.Fprintln(w, "\nCPU")
	fmt.Fprintf(w, "  Physical cores:\t%d\n", r.CPU.PhysicalCores)
	fmt.Fprintf(w, "  Logical cores:\t%d\n", r.CPU.LogicalCores)
	fmt.Fprintf(w, "  Max frequency:\t%s\n", r.CPU.MaxFreq)
	fmt.Fprintf(w, "  Current frequency:\t%s\n", r.CPU.CurrentFreq)
	fmt.Fprintf(w, "  Usage:\t%.1f%%\n", r.CPU.Percent)

	fmt.Fprintln(w, "\nMemory")
	fmt.Fprintf(w, "  Total:\t%s\n", humanize.IBytes(r.Memory.Total))
	fmt.Fprintf(w, "  Available:\t%s\n", humanize.IBytes(r.Memory.Available))
	fmt.Fprintf(w, "  Used:\t%s\n", humanize.IBytes(r.Memory.Used))
	fmt.Fprintf(w, "  Usage:\t%.1f%%\n", r.Memory.Percent)

	fmt.Fprintln(w, "\nDisks")
	fmt.Fprintln(w, "  DEVICE\tMOUNTPOINT\tTYPE\tTOTAL\tUSED\tFREE\tUSE%")
	for _, d := range r.Disks {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\t%.1f%%\n", d.Device, d.Mountpoint, d.Fstype,
			humanize.IBytes(d.Total), humanize.IBytes(d.Used), humanize.IBytes(d.Free), d.Percent)
	}
	return w.Flush()
}
