package models

import "time"

// CommandOutcome is the terminal result of one external command.
type CommandOutcome struct {
	Argv      []string `json:"argv"`
	ExitCode  int      `json:"exitCode"`
	Succeeded bool     `json:"succeeded"`
	// PermissionDenied 未以 root 运行, 进程没有被启动
	PermissionDenied bool `json:"permissionDenied,omitempty"`
	// Error 进程无法启动或被信号终止时的描述
	Error string `json:"error,omitempty"`
}

// StepResult pairs a step name with the outcome of its command.
type StepResult struct {
	Step    string         `json:"step"`
	Outcome CommandOutcome `json:"outcome"`
}

// MaintenanceResult aggregates the executed steps of one operation. Steps
// after the first failing one are never run and do not appear in Steps.
type MaintenanceResult struct {
	Operation        string       `json:"operation"`
	Succeeded        bool         `json:"succeeded"`
	FailedStep       string       `json:"failedStep,omitempty"`
	ExitCode         int          `json:"exitCode"`
	PermissionDenied bool         `json:"permissionDenied,omitempty"`
	Error            string       `json:"error,omitempty"`
	Steps            []StepResult `json:"steps,omitempty"`
	StartedAt        time.Time    `json:"startedAt"`
	FinishedAt       time.Time    `json:"finishedAt"`
}

// MaintenanceStatus is what the HTTP API reports about maintenance.
type MaintenanceStatus struct {
	// Busy 是否有操作正在执行
	Busy       bool               `json:"busy"`
	Operations []string           `json:"operations"`
	LastResult *MaintenanceResult `json:"lastResult,omitempty"`
	// Log 最近的日志行, 旧的在前
	Log []string `json:"log"`
}
