package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnv_Defaults(t *testing.T) {
	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Server.UIEnabled)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "./data/netflix_content_2023.csv", cfg.Dataset.Path)
	assert.Equal(t, "@daily", cfg.Dataset.RefreshCron)
	assert.Equal(t, defaultHolidayDates, cfg.Dataset.HolidayDates)
	assert.Equal(t, 3, cfg.Dataset.HolidayWindow)
	assert.Equal(t, 10, cfg.Dataset.TopTitles)
	assert.Equal(t, "./data/streampulse.db", cfg.Storage.DBPath)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestNewFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("UI_ENABLED", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATASET_PATH", "/tmp/data.csv")
	t.Setenv("REFRESH_CRON", "0 6 * * *")
	t.Setenv("HOLIDAY_DATES", "2024-01-01,2024-12-25")
	t.Setenv("HOLIDAY_WINDOW_DAYS", "5")
	t.Setenv("TOP_TITLES_DEFAULT", "25")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.False(t, cfg.Server.UIEnabled)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/tmp/data.csv", cfg.Dataset.Path)
	assert.Equal(t, "0 6 * * *", cfg.Dataset.RefreshCron)
	assert.Equal(t, []string{"2024-01-01", "2024-12-25"}, cfg.Dataset.HolidayDates)
	assert.Equal(t, 5, cfg.Dataset.HolidayWindow)
	assert.Equal(t, 25, cfg.Dataset.TopTitles)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestNewFromEnv_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad cron", "REFRESH_CRON", "not a cron"},
		{"bad holiday date", "HOLIDAY_DATES", "01/01/2024"},
		{"negative window", "HOLIDAY_WINDOW_DAYS", "-1"},
		{"zero top titles", "TOP_TITLES_DEFAULT", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := NewFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestHolidayTimes(t *testing.T) {
	t.Setenv("HOLIDAY_DATES", "2023-07-04,2023-12-25")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	times := cfg.HolidayTimes()
	require.Len(t, times, 2)
	assert.Equal(t, time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC), times[0])
	assert.Equal(t, time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC), times[1])
}

func TestNewFromEnv_Options(t *testing.T) {
	cfg, err := NewFromEnv(func(c *Config) {
		c.Server.Addr = ":0"
		c.Dataset.TopTitles = 5
	})
	require.NoError(t, err)
	assert.Equal(t, ":0", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Dataset.TopTitles)
}
