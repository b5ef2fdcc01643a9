// Package config loads the assistant's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrUnknownPackageManager is returned for a package_manager value with no preset.
var ErrUnknownPackageManager = errors.New("config: unknown package manager")

type Config struct {
	Poll        PollConfig        `yaml:"poll"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	Server      ServerConfig      `yaml:"server"`
}

type PollConfig struct {
	// Interval 采样间隔
	Interval time.Duration `yaml:"interval"`
	// HistorySize 折线图保留的样本数
	HistorySize int `yaml:"history_size"`
	// CPUSampleWindow CPU 占用率的采样窗口
	CPUSampleWindow time.Duration `yaml:"cpu_sample_window"`
}

type MaintenanceConfig struct {
	// PackageManager auto apt dnf yum pacman zypper
	PackageManager string `yaml:"package_manager"`
	TempDir        string `yaml:"temp_dir"`
	// Update 非空时替换预设的更新步骤
	Update []StepConfig `yaml:"update,omitempty"`
	// Cleanup 非空时替换预设的清理步骤
	Cleanup []StepConfig `yaml:"cleanup,omitempty"`
}

// StepConfig overrides one step of an operation. Name defaults to the preset
// step name at the same position.
type StepConfig struct {
	Name         string   `yaml:"name,omitempty"`
	Title        string   `yaml:"title,omitempty"`
	Command      []string `yaml:"command"`
	AllowFailure bool     `yaml:"allow_failure,omitempty"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
	// LogLines 保留的维护日志行数
	LogLines int `yaml:"log_lines"`
}

const (
	PackageManagerAuto = "auto"
	DefaultAddress     = ":9100"
	DefaultLogLines    = 500
	DefaultTempDir     = "/tmp"
)

func Default() *Config {
	return &Config{
		Poll: PollConfig{
			Interval:        time.Second,
			HistorySize:     60,
			CPUSampleWindow: 100 * time.Millisecond,
		},
		Maintenance: MaintenanceConfig{
			PackageManager: PackageManagerAuto,
			TempDir:        DefaultTempDir,
		},
		Server: ServerConfig{
			Address:  DefaultAddress,
			LogLines: DefaultLogLines,
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/sys-assistant/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sys-assistant", "config.yaml")
}

// Load reads path over the defaults. An empty path means DefaultPath, which
// may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive, got %s", c.Poll.Interval)
	}
	if c.Poll.HistorySize <= 0 {
		return fmt.Errorf("poll.history_size must be positive, got %d", c.Poll.HistorySize)
	}
	if c.Poll.CPUSampleWindow < 0 {
		return fmt.Errorf("poll.cpu_sample_window must not be negative, got %s", c.Poll.CPUSampleWindow)
	}
	if c.Server.LogLines <= 0 {
		return fmt.Errorf("server.log_lines must be positive, got %d", c.Server.LogLines)
	}
	if c.Maintenance.PackageManager != PackageManagerAuto {
		if _, ok := presets[c.Maintenance.PackageManager]; !ok {
			return unknownPackageManager(c.Maintenance.PackageManager)
		}
	}
	for section, steps := range map[string][]StepConfig{"update": c.Maintenance.Update, "cleanup": c.Maintenance.Cleanup} {
		for i, s := range steps {
			if len(s.Command) == 0 || s.Command[0] == "" {
				return fmt.Errorf("maintenance.%s[%d]: command must not be empty", section, i)
			}
		}
	}
	return nil
}
