package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "INVENTORY_API_BASE_URL", "INVENTORY_API_TIMEOUT", "LOG_LEVEL",
		"REFRESH_CRON_SCHEDULE", "EXPORT_CRON_SCHEDULE", "TIMEZONE",
		"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID", "MONGODB_URI", "MONGODB_DB_NAME",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "*/5 * * * *", cfg.Scheduler.RefreshSchedule)
	assert.Equal(t, "0 20 * * *", cfg.Scheduler.ExportSchedule)
	assert.Equal(t, "UTC", cfg.Scheduler.Timezone)
	assert.Equal(t, "warehouse", cfg.MongoDB.DBName)
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.MongoDB.Enabled())
}

func TestLoadFromEnvFile(t *testing.T) {
	// godotenv never overrides variables that are already present, even empty ones.
	for _, key := range []string{"INVENTORY_API_BASE_URL", "INVENTORY_API_TIMEOUT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("INVENTORY_API_BASE_URL=https://stock.example.com/api\nINVENTORY_API_TIMEOUT=3s\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://stock.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
}

func TestEmptyScheduleDisablesJob(t *testing.T) {
	t.Setenv("REFRESH_CRON_SCHEDULE", "")
	t.Setenv("EXPORT_CRON_SCHEDULE", "30 6 * * 1")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Scheduler.RefreshSchedule)
	assert.Equal(t, "30 6 * * 1", cfg.Scheduler.ExportSchedule)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			API:       APIConfig{BaseURL: "http://localhost:8000/api", Timeout: time.Second},
			Scheduler: SchedulerConfig{Timezone: "UTC"},
		}
	}

	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"relative base url": func(c *Config) { c.API.BaseURL = "/api" },
		"zero timeout":      func(c *Config) { c.API.Timeout = 0 },
		"bad timezone":      func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus" },
		"half sheets":       func(c *Config) { c.Sheets.SpreadsheetID = "sheet" },
		"mongo without db":  func(c *Config) { c.MongoDB.URI = "mongodb://localhost" },
		"missing port":      func(c *Config) { c.Server.Port = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
