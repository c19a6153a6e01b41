package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	viper.Reset()
	initConfig()

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Listen)
	assert.Equal(t, "openai", cfg.Upstream.Provider)
	assert.Equal(t, "gpt-4o", cfg.Upstream.Model)
	assert.Equal(t, 60*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "", cfg.Upstream.APIKey)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.Error(t, cfg.Validate(), "missing API key must be rejected")
}

func TestConfigFromEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("COOKEDFR_LISTEN", "0.0.0.0:9090")
	t.Setenv("COOKEDFR_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("COOKEDFR_UPSTREAM_TIMEOUT", "15s")
	t.Setenv("COOKEDFR_LOG_LEVEL", "debug")

	initConfig()

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Listen)
	assert.Equal(t, "gemini", cfg.Upstream.Provider)
	assert.Equal(t, "gm-key", cfg.Upstream.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Upstream.Model)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestConfigExplicitKeyWins(t *testing.T) {
	viper.Reset()
	t.Setenv("OPENAI_API_KEY", "from-provider-env")
	t.Setenv("COOKEDFR_API_KEY", "explicit")

	initConfig()

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.Upstream.APIKey)
}

func TestConfigLayering(t *testing.T) {
	viper.Reset()
	t.Setenv("COOKEDFR_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("COOKEDFR_MODEL", "gemini-1.5-pro")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  listen: 0.0.0.0:7000
upstream:
  provider: openai
  timeout: 10s
logging:
  level: warn
`), 0o644))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cmd := &cobra.Command{}
	cmd.Flags().String("provider", "openai", "")
	cmd.Flags().String("log-level", "info", "")
	require.NoError(t, cmd.Flags().Set("provider", "gemini"))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:7000", cfg.Server.Listen, "file overrides default")
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout, "file overrides default")
	assert.Equal(t, "warn", cfg.Logging.Level, "unchanged flag leaves file value")
	assert.Equal(t, "gemini", cfg.Upstream.Provider, "flag overrides file")
	assert.Equal(t, "gemini-1.5-pro", cfg.Upstream.Model, "env model survives provider switch")
	assert.Equal(t, "gm-key", cfg.Upstream.APIKey, "key resolved for the final provider")
}
