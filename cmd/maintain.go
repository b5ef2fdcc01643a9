package cmd

import (
	"fmt"
	"strings"

	"github.com/clarechu/sys-assistant/src/maintenance"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func MaintainCommand(opts *rootOptions) *cobra.Command {
	var dryRun bool
	maintainCmd := &cobra.Command{
		Use:               "maintain (update|cleanup)",
		Short:             "Run a maintenance operation in the foreground.",
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		Args:              cobra.ExactArgs(1),
		ValidArgs:         []string{maintenance.OperationUpdate, maintenance.OperationCleanup},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			orchestrator, err := newOrchestrator(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				return printPlan(cmd, orchestrator.Operations(), args[0])
			}
			result, err := orchestrator.RunOperation(cmd.Context(), args[0], func(line string) {
				fmt.Fprintln(out, line)
			})
			if err != nil {
				return err
			}
			if !result.Succeeded {
				klog.V(2).Infof("maintenance result: %+v", result)
				if result.FailedStep != "" {
					return fmt.Errorf("%s failed at step %s with exit code %d", result.Operation, result.FailedStep, result.ExitCode)
				}
				return fmt.Errorf("%s failed: %s", result.Operation, result.Error)
			}
			return nil
		},
	}
	maintainCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the commands of the operation without running them")
	return maintainCmd
}

func printPlan(cmd *cobra.Command, ops []maintenance.Operation, name string) error {
	for _, op := range ops {
		if op.Name != name {
			continue
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s:\n", op.Title)
		for i, step := range op.Steps {
			suffix := ""
			if step.AllowFailure {
				suffix = " (failure allowed)"
			}
			fmt.Fprintf(out, "  %d. %s: %s%s\n", i+1, step.Name, strings.Join(step.Argv, " "), suffix)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", maintenance.ErrUnknownOperation, name)
}
