package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverFile, cfg.Store.Driver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 8081, cfg.MCP.Port)
	assert.NotEmpty(t, cfg.Shell)
	assert.Zero(t, cfg.StepDelay)
	assert.True(t, cfg.JournalEnabled())
}

func TestLoad_Formats(t *testing.T) {
	cases := map[string]string{
		"config.yaml": "step_delay: 200ms\nstore:\n  driver: memory\nshell: [bash, -c]\n",
		"config.toml": "step_delay = \"200ms\"\nshell = [\"bash\", \"-c\"]\n[store]\ndriver = \"memory\"\n",
		"config.json": `{"step_delay": "200ms", "shell": ["bash", "-c"], "store": {"driver": "memory"}}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, name, content))
			require.NoError(t, err)
			assert.Equal(t, 200*time.Millisecond, cfg.StepDelay)
			assert.Equal(t, DriverMemory, cfg.Store.Driver)
			assert.Equal(t, []string{"bash", "-c"}, cfg.Shell)
		})
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := Load(writeConfig(t, "config.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", "log_level: warn\nstore:\n  driver: memory\n")

	t.Setenv("DEBLOAT_LOG_LEVEL", "debug")
	t.Setenv("DEBLOAT_STORE__DRIVER", "redis")
	t.Setenv("DEBLOAT_STORE__REDIS__ADDR", "cache:6379")
	t.Setenv("DEBLOAT_STORE__REDIS__TTL", "1h")
	t.Setenv("DEBLOAT_MCP__PORT", "9000")
	t.Setenv("DEBLOAT_SHELL", "zsh -c")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, 9000, cfg.MCP.Port)
	assert.Equal(t, []string{"zsh", "-c"}, cfg.Shell)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Shell:    []string{"sh", "-c"},
			LogLevel: "info",
			Store:    StoreConfig{Driver: DriverMemory},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("collects every error", func(t *testing.T) {
		cfg := valid()
		cfg.Shell = nil
		cfg.StepDelay = -time.Second
		cfg.Store.Driver = "postgres"
		cfg.LogLevel = "loud"

		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorContains(t, err, "shell must not be empty")
		assert.ErrorContains(t, err, "step_delay must not be negative")
		assert.ErrorContains(t, err, `unknown store driver "postgres"`)
		assert.ErrorContains(t, err, "loud")
	})

	t.Run("redis requires address", func(t *testing.T) {
		cfg := valid()
		cfg.Store.Driver = DriverRedis
		assert.ErrorContains(t, cfg.Validate(), "store.redis.addr")
	})

	t.Run("watch requires catalog", func(t *testing.T) {
		cfg := valid()
		cfg.Watch = true
		assert.ErrorContains(t, cfg.Validate(), "watch requires a catalog file")
	})

	t.Run("journal disabled", func(t *testing.T) {
		cfg := valid()
		cfg.Journal = JournalDisabled
		assert.False(t, cfg.JournalEnabled())
	})
}
