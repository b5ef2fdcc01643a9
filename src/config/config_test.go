package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clarechu/sys-assistant/src/maintenance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `
poll:
  interval: 2s
  history_size: 120
maintenance:
  package_manager: dnf
  temp_dir: /var/tmp/assistant
  cleanup:
    - command: [dnf, clean, all]
    - command: [dnf, autoremove, -y]
      allow_failure: true
server:
  address: 127.0.0.1:9200
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 120, cfg.Poll.HistorySize)
	assert.Equal(t, 100*time.Millisecond, cfg.Poll.CPUSampleWindow, "unset keys keep defaults")
	assert.Equal(t, "dnf", cfg.Maintenance.PackageManager)
	assert.Equal(t, "/var/tmp/assistant", cfg.Maintenance.TempDir)
	require.Len(t, cfg.Maintenance.Cleanup, 2)
	assert.True(t, cfg.Maintenance.Cleanup[1].AllowFailure)
	assert.Equal(t, "127.0.0.1:9200", cfg.Server.Address)
	assert.Equal(t, DefaultLogLines, cfg.Server.LogLines)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad yaml", content: "poll: [", wantErr: "parse config"},
		{name: "zero interval", content: "poll:\n  interval: 0s\n", wantErr: "poll.interval"},
		{name: "negative history", content: "poll:\n  history_size: -1\n", wantErr: "poll.history_size"},
		{name: "unknown manager", content: "maintenance:\n  package_manager: brew\n", wantErr: "unknown package manager"},
		{name: "empty step", content: "maintenance:\n  update:\n    - command: []\n", wantErr: "maintenance.update[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_UnknownManagerIsSentinel(t *testing.T) {
	_, err := Load(writeFile(t, "config.yaml", "maintenance:\n  package_manager: brew\n"))
	assert.ErrorIs(t, err, ErrUnknownPackageManager)
	assert.Contains(t, err.Error(), "want auto or one of apt, dnf, yum, pacman, zypper")
}

func TestPlan_EnvPerManager(t *testing.T) {
	for _, name := range PackageManagers() {
		t.Run(name, func(t *testing.T) {
			plan, err := (&MaintenanceConfig{PackageManager: name}).Plan("")
			require.NoError(t, err)
			if name == "apt" {
				assert.Equal(t, []string{"DEBIAN_FRONTEND=noninteractive"}, plan.Env)
				return
			}
			assert.Empty(t, plan.Env)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err, "an explicit path must exist")

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestOSRelease_PackageManager(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "ubuntu", content: "NAME=\"Ubuntu\"\nID=ubuntu\nID_LIKE=debian\n", want: "apt"},
		{name: "fedora", content: "ID=fedora\n", want: "dnf"},
		{name: "derivative via id_like", content: "ID=nobara\nID_LIKE=\"rhel centos fedora\"\n", want: "dnf"},
		{name: "arch derivative", content: "ID=garuda\nID_LIKE=arch\n", want: "pacman"},
		{name: "suse", content: "ID=\"opensuse-tumbleweed\"\nID_LIKE=\"opensuse suse\"\n", want: "zypper"},
		{name: "unknown falls back to apt", content: "ID=plan9\n", want: "apt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			release, err := ReadOSRelease(writeFile(t, "os-release", tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, release.PackageManager())
			assert.NotEmpty(t, release.Name())
		})
	}
}

func TestOSRelease_Name(t *testing.T) {
	release, err := ReadOSRelease(writeFile(t, "os-release", "ID=debian\nPRETTY_NAME=\"Debian GNU/Linux 12 (bookworm)\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "Debian GNU/Linux 12 (bookworm)", release.Name())

	release, err = ReadOSRelease(writeFile(t, "os-release", "ID=alpine\n"))
	require.NoError(t, err)
	assert.Equal(t, "alpine", release.Name())
}

func TestResolvePackageManager(t *testing.T) {
	osRelease := writeFile(t, "os-release", "ID=arch\n")

	m := MaintenanceConfig{PackageManager: PackageManagerAuto}
	pm, err := m.ResolvePackageManager(osRelease)
	require.NoError(t, err)
	assert.Equal(t, "pacman", pm)

	pm, err = m.ResolvePackageManager(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, "apt", pm)

	m.PackageManager = "zypper"
	pm, err = m.ResolvePackageManager(osRelease)
	require.NoError(t, err)
	assert.Equal(t, "zypper", pm)

	m.PackageManager = "brew"
	_, err = m.ResolvePackageManager(osRelease)
	assert.ErrorIs(t, err, ErrUnknownPackageManager)
}

func TestPlan_Preset(t *testing.T) {
	m := MaintenanceConfig{PackageManager: "apt", TempDir: "/scratch"}
	plan, err := m.Plan("")
	require.NoError(t, err)
	assert.Equal(t, "apt", plan.PackageManager)
	assert.Equal(t, []string{"DEBIAN_FRONTEND=noninteractive"}, plan.Env)
	ops := plan.Operations
	require.Len(t, ops, 2)

	update, cleanup := ops[0], ops[1]
	assert.Equal(t, maintenance.OperationUpdate, update.Name)
	assert.Equal(t, []string{"apt-get", "update"}, update.Steps[0].Argv)
	assert.Equal(t, []string{"apt-get", "upgrade", "-y"}, update.Steps[1].Argv)

	assert.Equal(t, maintenance.OperationCleanup, cleanup.Name)
	require.Len(t, cleanup.Steps, 3)
	assert.Equal(t, maintenance.StepRemoveTempFile, cleanup.Steps[2].Name)
	assert.Equal(t, []string{"find", "/scratch", "-mindepth", "1", "-delete"}, cleanup.Steps[2].Argv)
	for _, op := range ops {
		for _, s := range op.Steps {
			assert.False(t, s.AllowFailure, "presets short-circuit")
		}
	}
}

func TestPlan_Override(t *testing.T) {
	m := MaintenanceConfig{
		PackageManager: "apt",
		Update: []StepConfig{
			{Command: []string{"apk", "update"}},
			{Command: []string{"apk", "upgrade"}, AllowFailure: true},
			{Name: "reboot-check", Command: []string{"needrestart", "-b"}},
		},
	}
	plan, err := m.Plan("")
	require.NoError(t, err)
	ops := plan.Operations

	steps := ops[0].Steps
	require.Len(t, steps, 3)
	assert.Equal(t, maintenance.StepRefreshIndex, steps[0].Name)
	assert.Equal(t, "Updating package lists", steps[0].Title)
	assert.Equal(t, []string{"apk", "update"}, steps[0].Argv)
	assert.True(t, steps[1].AllowFailure)
	assert.Equal(t, "reboot-check", steps[2].Name)
	assert.Equal(t, "Running needrestart", steps[2].Title)

	assert.Len(t, ops[1].Steps, 3, "cleanup keeps its preset")
}

func TestPackageManagers_AllHavePresets(t *testing.T) {
	for _, name := range PackageManagers() {
		p, ok := presets[name]
		require.True(t, ok, name)
		assert.NotEmpty(t, p.refresh, name)
		assert.NotEmpty(t, p.upgrade, name)
		assert.NotEmpty(t, p.cleanCache, name)
		assert.NotEmpty(t, p.removeUnused, name)
	}
}
