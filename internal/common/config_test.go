package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "data/portfolios", config.Data.Dir)
	assert.Equal(t, 15*time.Minute, config.Data.GetRefreshInterval())
	assert.Equal(t, "info", config.Logging.Level)
	assert.False(t, config.IsProduction())
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.toml")
	content := `
environment = "production"

[server]
host = "127.0.0.1"
port = 9090

[data]
dir = "/srv/portfolios"
refresh_interval = "5m"

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.True(t, config.IsProduction())
	assert.Equal(t, "127.0.0.1", config.Server.Host)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "/srv/portfolios", config.Data.Dir)
	assert.Equal(t, 5*time.Minute, config.Data.GetRefreshInterval())
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig("/nonexistent/dashboard.toml")
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("this = is not [valid"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PD_ENV", "prod")
	t.Setenv("PD_HOST", "10.0.0.5")
	t.Setenv("PD_PORT", "3000")
	t.Setenv("PD_LOG_LEVEL", "warn")
	t.Setenv("PD_DATA_DIR", "/mnt/files")
	t.Setenv("PD_REFRESH_INTERVAL", "1h")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", config.Environment)
	assert.True(t, config.IsProduction())
	assert.Equal(t, "10.0.0.5", config.Server.Host)
	assert.Equal(t, 3000, config.Server.Port)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, "/mnt/files", config.Data.Dir)
	assert.Equal(t, time.Hour, config.Data.GetRefreshInterval())
}

func TestLoadConfig_InvalidEnvPortIgnored(t *testing.T) {
	t.Setenv("PD_PORT", "not-a-number")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestGetRefreshInterval_Fallbacks(t *testing.T) {
	for _, raw := range []string{"", "garbage", "-5m", "0s"} {
		c := DataConfig{RefreshInterval: raw}
		assert.Equal(t, 15*time.Minute, c.GetRefreshInterval(), "raw=%q", raw)
	}
}
