package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml", cfg.ECB.DailyURL)
	assert.Equal(t, "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-hist-90d.xml", cfg.ECB.NinetyDaysURL)
	assert.Equal(t, "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-hist.xml", cfg.ECB.HistoryURL)
	assert.Equal(t, 10*time.Second, cfg.ECB.Timeout)
	assert.Equal(t, "@hourly", cfg.ECB.WarmSchedule)
	assert.Equal(t, CacheDriverMemory, cfg.Cache.Driver)
	assert.Equal(t, time.Hour, cfg.Cache.CurrentTTL)
	assert.Equal(t, 1440*time.Hour, cfg.Cache.HistoryTTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ECB_USER_AGENT", "rates-bot/2.0")
	t.Setenv("CACHE_DRIVER", "redis")
	t.Setenv("CACHE_CURRENT_TTL", "30m")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "rates-bot/2.0", cfg.ECB.UserAgent)
	assert.Equal(t, CacheDriverRedis, cfg.Cache.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Cache.CurrentTTL)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ECB_WARM_SCHEDULE=\"@every 5m\"\n"), 0o600))
	t.Setenv("ECB_WARM_SCHEDULE", "")
	require.NoError(t, os.Unsetenv("ECB_WARM_SCHEDULE"))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "@every 5m", cfg.ECB.WarmSchedule)
}

func TestLoadConfig_EnvFileErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	path := filepath.Join(t.TempDir(), "broken.env")
	require.NoError(t, os.WriteFile(path, []byte("CACHE-DRIVER=redis\n"), 0o600))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := map[string]string{
		"CACHE_DRIVER":      "memcached",
		"LOG_FORMAT":        "xml",
		"SERVER_PORT":       "70000",
		"CACHE_CURRENT_TTL": "soon",
	}

	for key, value := range testCases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
