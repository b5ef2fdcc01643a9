package cmd

import (
	"github.com/clarechu/sys-assistant/src/command"
	"github.com/clarechu/sys-assistant/src/config"
	"github.com/clarechu/sys-assistant/src/maintenance"
	"github.com/clarechu/sys-assistant/src/sysinfo"
)

// stepWorkDir is outside any temp_dir the cleanup step may empty.
const stepWorkDir = "/"

func newProvider(cfg *config.Config) *sysinfo.Provider {
	return sysinfo.NewProvider(sysinfo.WithSampleWindow(cfg.Poll.CPUSampleWindow))
}

func newOrchestrator(cfg *config.Config) (*maintenance.Orchestrator, error) {
	plan, err := cfg.Maintenance.Plan(config.DefaultOSReleasePath)
	if err != nil {
		return nil, err
	}
	runner := command.NewRunner(command.WithEnv(plan.Env...), command.WithDir(stepWorkDir))
	return maintenance.New(runner, plan.Operations...), nil
}
