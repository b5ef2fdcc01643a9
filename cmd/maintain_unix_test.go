//go:build unix

package cmd

import (
	"os"
	"testing"

	"github.com/clarechu/sys-assistant/src/maintenance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintainRun(t *testing.T) {
	cfg := writeConfig(t, `
maintenance:
  package_manager: apt
  update:
    - command: [sh, -c, "echo refreshed $DEBIAN_FRONTEND in $(pwd)"]
    - command: [sh, -c, "echo upgraded; exit 3"]
`)
	out, err := execute(t, "maintain", "update", "--config", cfg)
	require.Error(t, err)

	if os.Geteuid() != 0 {
		assert.Contains(t, out, maintenance.PermissionMessage)
		assert.NotContains(t, out, "refreshed")
		return
	}
	assert.Contains(t, out, "refreshed noninteractive in /")
	assert.Contains(t, out, "upgraded")
	assert.Contains(t, out, "Error upgrading packages: exit code 3.")
	assert.Contains(t, err.Error(), "exit code 3")
}
