// Package config loads the netprofiler configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"netprofiler/internal/pkg/logging"

	"gopkg.in/yaml.v3"
)

// AppName names the per-user configuration directory.
const AppName = "netprofiler"

// StoreConfig locates the profile store document.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// HistoryConfig locates the apply history database.
type HistoryConfig struct {
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

// VerifyConfig bounds post-apply verification.
type VerifyConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Delay       time.Duration `yaml:"delay"`
}

// DHCPConfig bounds lease acquisition on Linux.
type DHCPConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	Attempts int           `yaml:"attempts"`
}

// LinuxConfig holds Linux backend settings.
type LinuxConfig struct {
	ResolvConf string `yaml:"resolv_conf"`
}

// MetricsConfig controls the node-exporter textfile output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Config represents the main configuration structure
type Config struct {
	Logging logging.LogConfig `yaml:"logging"`
	Store   StoreConfig       `yaml:"store"`
	History HistoryConfig     `yaml:"history"`
	Verify  VerifyConfig      `yaml:"verify"`
	DHCP    DHCPConfig        `yaml:"dhcp"`
	Linux   LinuxConfig       `yaml:"linux"`
	Metrics MetricsConfig     `yaml:"metrics"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: logging.DefaultLogConfig(),
		History: HistoryConfig{RetentionDays: 90},
		Verify:  VerifyConfig{MaxAttempts: 5, Delay: time.Second},
		DHCP:    DHCPConfig{Timeout: 5 * time.Second, Attempts: 2},
		Linux:   LinuxConfig{ResolvConf: "/etc/resolv.conf"},
	}
}

// Load loads configuration from a YAML file on top of the defaults.
// An empty path returns the defaults.
func Load(configPath string) (*Config, error) {
	config := Default()
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Verify.MaxAttempts < 1 {
		return fmt.Errorf("verify.max_attempts must be at least 1, got %d", c.Verify.MaxAttempts)
	}
	if c.Verify.Delay < 0 {
		return fmt.Errorf("verify.delay must not be negative, got %s", c.Verify.Delay)
	}
	if c.DHCP.Attempts < 1 {
		return fmt.Errorf("dhcp.attempts must be at least 1, got %d", c.DHCP.Attempts)
	}
	if c.DHCP.Timeout <= 0 {
		return fmt.Errorf("dhcp.timeout must be positive, got %s", c.DHCP.Timeout)
	}
	if c.History.RetentionDays < 0 {
		return fmt.Errorf("history.retention_days must not be negative, got %d", c.History.RetentionDays)
	}
	if c.Linux.ResolvConf == "" {
		return fmt.Errorf("linux.resolv_conf is required")
	}
	return nil
}

// StorePath returns the profile store path, defaulting under the user config dir.
func (c *Config) StorePath() (string, error) {
	return c.pathOrDefault(c.Store.Path, "profiles.yaml")
}

// HistoryPath returns the history database path, defaulting under the user config dir.
func (c *Config) HistoryPath() (string, error) {
	return c.pathOrDefault(c.History.Path, "history.db")
}

// Retention returns the history retention as a duration; zero keeps everything.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.History.RetentionDays) * 24 * time.Hour
}

func (c *Config) pathOrDefault(path, file string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, AppName, file), nil
}
