package config

import (
	"fmt"
	"strings"

	"github.com/clarechu/sys-assistant/src/maintenance"
	"k8s.io/klog/v2"
)

// preset holds the argv of every built-in step for one package manager.
type preset struct {
	refresh      []string
	upgrade      []string
	cleanCache   []string
	removeUnused []string
	// env is appended to the environment of every step.
	env []string
}

var presets = map[string]preset{
	"apt": {
		refresh:      []string{"apt-get", "update"},
		env:          []string{"DEBIAN_FRONTEND=noninteractive"},
		upgrade:      []string{"apt-get", "upgrade", "-y"},
		cleanCache:   []string{"apt-get", "clean"},
		removeUnused: []string{"apt-get", "autoremove", "-y"},
	},
	"dnf": {
		refresh:      []string{"dnf", "makecache", "--refresh"},
		upgrade:      []string{"dnf", "upgrade", "-y"},
		cleanCache:   []string{"dnf", "clean", "all"},
		removeUnused: []string{"dnf", "autoremove", "-y"},
	},
	"yum": {
		refresh:      []string{"yum", "makecache"},
		upgrade:      []string{"yum", "update", "-y"},
		cleanCache:   []string{"yum", "clean", "all"},
		removeUnused: []string{"yum", "autoremove", "-y"},
	},
	"pacman": {
		refresh:      []string{"pacman", "-Sy", "--noconfirm"},
		upgrade:      []string{"pacman", "-Su", "--noconfirm"},
		cleanCache:   []string{"pacman", "-Sc", "--noconfirm"},
		removeUnused: []string{"sh", "-c", "pacman -Qdtq | pacman -Rns --noconfirm - || true"},
	},
	"zypper": {
		refresh:      []string{"zypper", "--non-interactive", "refresh"},
		upgrade:      []string{"zypper", "--non-interactive", "update"},
		cleanCache:   []string{"zypper", "clean", "--all"},
		removeUnused: []string{"sh", "-c", "zypper --non-interactive packages --unneeded | awk -F'|' '/^i/ {print $3}' | xargs -r zypper --non-interactive remove --clean-deps"},
	},
}

// PackageManagers lists the names accepted by maintenance.package_manager
// besides auto.
func PackageManagers() []string {
	return []string{"apt", "dnf", "yum", "pacman", "zypper"}
}

// ResolvePackageManager maps auto to a preset using the os-release file at
// osReleasePath; any other value is returned unchanged once known.
func (m *MaintenanceConfig) ResolvePackageManager(osReleasePath string) (string, error) {
	if m.PackageManager != PackageManagerAuto && m.PackageManager != "" {
		if _, ok := presets[m.PackageManager]; !ok {
			return "", unknownPackageManager(m.PackageManager)
		}
		return m.PackageManager, nil
	}
	release, err := ReadOSRelease(osReleasePath)
	if err != nil {
		klog.Warningf("detect package manager: %s, falling back to apt", err)
		return "apt", nil
	}
	pm := release.PackageManager()
	klog.V(1).Infof("detected %s, using the %s preset", release.Name(), pm)
	return pm, nil
}

func unknownPackageManager(name string) error {
	return fmt.Errorf("%w: %q (want %s or one of %s)",
		ErrUnknownPackageManager, name, PackageManagerAuto, strings.Join(PackageManagers(), ", "))
}

// Plan is the resolved maintenance setup.
type Plan struct {
	PackageManager string
	Operations     []maintenance.Operation
	// Env is passed to every spawned step.
	Env []string
}

// Plan builds the update and cleanup operations, applying any explicit step
// lists over the preset.
func (m *MaintenanceConfig) Plan(osReleasePath string) (*Plan, error) {
	name, err := m.ResolvePackageManager(osReleasePath)
	if err != nil {
		return nil, err
	}
	p := presets[name]
	tempDir := m.TempDir
	if tempDir == "" {
		tempDir = DefaultTempDir
	}
	klog.V(2).Infof("maintenance uses the %s preset, temp dir %s", name, tempDir)

	update := maintenance.UpdateOperation(p.refresh, p.upgrade)
	cleanup := maintenance.CleanupOperation(p.cleanCache, p.removeUnused, TempCleanupCommand(tempDir))
	if len(m.Update) > 0 {
		update.Steps = overrideSteps(update.Steps, m.Update)
	}
	if len(m.Cleanup) > 0 {
		cleanup.Steps = overrideSteps(cleanup.Steps, m.Cleanup)
	}
	return &Plan{
		PackageManager: name,
		Operations:     []maintenance.Operation{update, cleanup},
		Env:            append([]string(nil), p.env...),
	}, nil
}

// TempCleanupCommand removes the contents of dir but not dir itself.
func TempCleanupCommand(dir string) []string {
	return []string{"find", dir, "-mindepth", "1", "-delete"}
}

func overrideSteps(preset []maintenance.Step, configured []StepConfig) []maintenance.Step {
	steps := make([]maintenance.Step, 0, len(configured))
	for i, c := range configured {
		step := maintenance.Step{
			Name:         c.Name,
			Title:        c.Title,
			Argv:         append([]string(nil), c.Command...),
			AllowFailure: c.AllowFailure,
		}
		if i < len(preset) {
			if step.Name == "" {
				step.Name = preset[i].Name
			}
			if step.Title == "" {
				step.Title = preset[i].Title
			}
		}
		if step.Name == "" {
			step.Name = fmt.Sprintf("step-%d", i+1)
		}
		if step.Title == "" {
			step.Title = "Running " + c.Command[0]
		}
		steps = append(steps, step)
	}
	return steps
}
