package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/clarechu/sys-assistant/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := GetRootCmd(args)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "-o", "json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "golangVersion")
}

func TestMaintainDryRun(t *testing.T) {
	cfg := writeConfig(t, "maintenance:\n  package_manager: apt\n  temp_dir: /scratch\n")
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "update",
			args: []string{"maintain", "update", "--dry-run", "--config", cfg},
			want: []string{
				"System update:",
				"1. refresh-package-index: apt-get update",
				"2. upgrade-all-packages: apt-get upgrade -y",
			},
		},
		{
			name: "cleanup",
			args: []string{"maintain", "cleanup", "--dry-run", "--config", cfg},
			want: []string{
				"1. clean-package-cache: apt-get clean",
				"2. remove-unused-packages: apt-get autoremove -y",
				"3. remove-temp-files: find /scratch -mindepth 1 -delete",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestMaintainUnknownOperation(t *testing.T) {
	cfg := writeConfig(t, "maintenance:\n  package_manager: apt\n")
	_, err := execute(t, "maintain", "defrag", "--dry-run", "--config", cfg)
	assert.Error(t, err)
}

func TestConfigErrors(t *testing.T) {
	_, err := execute(t, "maintain", "update", "--dry-run", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	cfg := writeConfig(t, "poll:\n  interval: -1s\n")
	_, err = execute(t, "info", "--config", cfg)
	assert.Error(t, err)
}

func TestInfoCommand(t *testing.T) {
	cfg := writeConfig(t, "poll:\n  cpu_sample_window: 10ms\n")

	_, err := execute(t, "info", "-o", "yaml", "--config", cfg)
	assert.Error(t, err)

	out, err := execute(t, "info", "-o", "json", "--config", cfg)
	require.NoError(t, err)
	var report models.SystemReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.NotNil(t, report.Host)
	assert.NotEmpty(t, report.Host.System)
	require.NotNil(t, report.CPU)
	assert.Positive(t, report.CPU.LogicalCores)
	require.NotNil(t, report.Memory)
	assert.Positive(t, report.Memory.Total)

	out, err = execute(t, "info", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "System Information")
	assert.Contains(t, out, "Logical cores:")
}
