package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/clarechu/sys-assistant/src/poller"
	"github.com/clarechu/sys-assistant/src/ui"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func DashboardCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "dashboard",
		Short:             "Start the terminal dashboard.",
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		Args:              cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, opts)
		},
	}
}

// redirectLogs keeps klog off the terminal the dashboard draws on.
func redirectLogs(path string) (func(), error) {
	klog.LogToStderr(false)
	if path == "" {
		klog.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	klog.SetOutput(f)
	return func() {
		klog.Flush()
		_ = f.Close()
	}, nil
}

func runDashboard(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	closeLog, err := redirectLogs(opts.logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	orchestrator, err := newOrchestrator(cfg)
	if err != nil {
		return err
	}
	provider := newProvider(cfg)
	ctx := cmd.Context()

	model := ui.NewModel(ui.Options{
		// a running package manager is not killed when the dashboard exits
		Context:     context.WithoutCancel(ctx),
		System:      provider,
		Maintenance: orchestrator,
		HistorySize: cfg.Poll.HistorySize,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	pl, err := poller.New(provider, ui.SampleForwarder(p), poller.Config{
		Interval:    cfg.Poll.Interval,
		HistorySize: cfg.Poll.HistorySize,
		OnError:     ui.ErrorForwarder(p),
	})
	if err != nil {
		return err
	}

	fwdCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go ui.ForwardEvents(fwdCtx, orchestrator.Events(), p)

	pl.Start()
	defer pl.Stop()

	klog.Infof("dashboard started, poll interval %s", cfg.Poll.Interval)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	if orchestrator.Busy() {
		klog.Warningf("dashboard closed while a maintenance operation was running")
	}
	return nil
}
