//go:build unit

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("ValidConfig", func(t *testing.T) {
		configContent := `logging:
  level: debug
  format: compact

store:
  path: /var/lib/netprofiler/profiles.yaml

verify:
  max_attempts: 3
  delay: 250ms

dhcp:
  timeout: 10s
`
		configFile := filepath.Join(tempDir, "valid.yml")
		err := os.WriteFile(configFile, []byte(configContent), 0644)
		require.NoError(t, err)

		config, err := Load(configFile)
		require.NoError(t, err)
		assert.Equal(t, "debug", config.Logging.Level)
		assert.Equal(t, "compact", config.Logging.Format)
		assert.Equal(t, "/var/lib/netprofiler/profiles.yaml", config.Store.Path)
		assert.Equal(t, 3, config.Verify.MaxAttempts)
		assert.Equal(t, 250*time.Millisecond, config.Verify.Delay)
		assert.Equal(t, 10*time.Second, config.DHCP.Timeout)

		// Untouched sections keep their defaults
		assert.Equal(t, 2, config.DHCP.Attempts)
		assert.Equal(t, "/etc/resolv.conf", config.Linux.ResolvConf)
		assert.Equal(t, 90, config.History.RetentionDays)
		assert.NoError(t, config.Validate())
	})

	t.Run("EmptyPathReturnsDefaults", func(t *testing.T) {
		config, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), config)
		assert.NoError(t, config.Validate())
	})

	t.Run("NonExistentFile", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		configContent := `invalid: yaml: content: [
`
		configFile := filepath.Join(tempDir, "invalid.yml")
		err := os.WriteFile(configFile, []byte(configContent), 0644)
		require.NoError(t, err)

		_, err = Load(configFile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"Defaults", func(c *Config) {}, ""},
		{"ZeroVerifyAttempts", func(c *Config) { c.Verify.MaxAttempts = 0 }, "verify.max_attempts"},
		{"NegativeDelay", func(c *Config) { c.Verify.Delay = -time.Second }, "verify.delay"},
		{"ZeroDHCPAttempts", func(c *Config) { c.DHCP.Attempts = 0 }, "dhcp.attempts"},
		{"ZeroDHCPTimeout", func(c *Config) { c.DHCP.Timeout = 0 }, "dhcp.timeout"},
		{"NegativeRetention", func(c *Config) { c.History.RetentionDays = -1 }, "history.retention_days"},
		{"MissingResolvConf", func(c *Config) { c.Linux.ResolvConf = "" }, "linux.resolv_conf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Paths(t *testing.T) {
	t.Run("Explicit", func(t *testing.T) {
		config := Default()
		config.Store.Path = "/tmp/p.yaml"
		config.History.Path = "/tmp/h.db"

		p, err := config.StorePath()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/p.yaml", p)

		h, err := config.HistoryPath()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/h.db", h)
	})

	t.Run("DefaultUnderUserConfigDir", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("XDG_CONFIG_HOME is only honoured on Linux")
		}
		t.Setenv("XDG_CONFIG_HOME", "/home/op/.config")
		t.Setenv("HOME", "/home/op")

		config := Default()
		p, err := config.StorePath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/home/op/.config", AppName, "profiles.yaml"), p)
	})

	t.Run("Retention", func(t *testing.T) {
		config := Default()
		assert.Equal(t, 90*24*time.Hour, config.Retention())
	})
}
