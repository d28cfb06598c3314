package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds all application configuration.
// Supports environment variables with sensible defaults.
//
// Environment Variables:
// Server:
// - HTTP_ADDR: listen address (default: :8080)
// - UI_DIR: static UI directory overriding the embedded assets (optional)
// - UI_ENABLED: serve the single-page UI (default: true)
// - SHUTDOWN_TIMEOUT: graceful shutdown budget, Go duration (default: 10s)
//
// Dataset:
// - DATASET_PATH: bundled CSV loaded at boot when the store is empty
//   (default: ./data/netflix_content_2023.csv)
// - DATASET_NAME: display name for the bundled dataset (default: file name)
// - REFRESH_CRON: cron expression for re-reading DATASET_PATH (default: @daily)
// - HOLIDAY_DATES: comma-separated YYYY-MM-DD list for the holiday flag
// - HOLIDAY_WINDOW_DAYS: ±days around a holiday date (default: 3)
// - TOP_TITLES_DEFAULT: default N for the top-titles table (default: 10)
//
// Storage:
// - DB_PATH: sqlite database path (default: ./data/streampulse.db)
//
// Logging:
// - LOG_LEVEL: debug|info|warn|error (default: info)

type Config struct {
	Server  ServerConfig  `json:"server"`
	Dataset DatasetConfig `json:"dataset"`
	Storage StorageConfig `json:"storage"`
	Log     LogConfig     `json:"log"`
}

type ServerConfig struct {
	Addr            string        `json:"addr"`
	UIDir           string        `json:"ui_dir"`
	UIEnabled       bool          `json:"ui_enabled"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type DatasetConfig struct {
	Path          string   `json:"path"`
	Name          string   `json:"name"`
	RefreshCron   string   `json:"refresh_cron"`
	HolidayDates  []string `json:"holiday_dates"`
	HolidayWindow int      `json:"holiday_window"`
	TopTitles     int      `json:"top_titles"`
}

type StorageConfig struct {
	DBPath string `json:"db_path"`
}

type LogConfig struct {
	Level string `json:"level"`
}

// Default holiday dates checked for release proximity: New Year,
// Valentine's Day, US Independence Day, Halloween, Christmas.
var defaultHolidayDates = []string{
	"2023-01-01",
	"2023-02-14",
	"2023-07-04",
	"2023-10-31",
	"2023-12-25",
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Addr:      getEnvString("HTTP_ADDR", ":8080"),
			UIDir:     getEnvString("UI_DIR", ""),
			UIEnabled: getEnvBool("UI_ENABLED", true),

			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Dataset: DatasetConfig{
			Path:          getEnvString("DATASET_PATH", "./data/netflix_content_2023.csv"),
			Name:          getEnvString("DATASET_NAME", ""),
			RefreshCron:   getEnvString("REFRESH_CRON", "@daily"),
			HolidayDates:  getEnvList("HOLIDAY_DATES", defaultHolidayDates),
			HolidayWindow: getEnvInt("HOLIDAY_WINDOW_DAYS", 3),
			TopTitles:     getEnvInt("TOP_TITLES_DEFAULT", 10),
		},
		Storage: StorageConfig{
			DBPath: getEnvString("DB_PATH", "./data/streampulse.db"),
		},
		Log: LogConfig{
			Level: getEnvString("LOG_LEVEL", "info"),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// HolidayTimes parses the configured holiday date list. Validated up front,
// so parse errors here cannot happen after NewFromEnv succeeds.
func (c *Config) HolidayTimes() []time.Time {
	times := make([]time.Time, 0, len(c.Dataset.HolidayDates))
	for _, d := range c.Dataset.HolidayDates {
		if t, err := time.Parse("2006-01-02", d); err == nil {
			times = append(times, t)
		}
	}
	return times
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if strings.TrimSpace(c.Dataset.Path) == "" {
		return fmt.Errorf("DATASET_PATH is required")
	}
	if strings.TrimSpace(c.Storage.DBPath) == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Dataset.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.Dataset.RefreshCron); err != nil {
			return fmt.Errorf("invalid REFRESH_CRON: %w", err)
		}
	}
	for _, d := range c.Dataset.HolidayDates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("invalid HOLIDAY_DATES entry %q: %w", d, err)
		}
	}
	if c.Dataset.HolidayWindow < 0 {
		return fmt.Errorf("HOLIDAY_WINDOW_DAYS must be >= 0")
	}
	if c.Dataset.TopTitles <= 0 {
		return fmt.Errorf("TOP_TITLES_DEFAULT must be > 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean value from environment variables with default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration value from environment variables with default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList gets a comma-separated list from environment variables with default
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
