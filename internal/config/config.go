package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	MongoDB    MongoDBConfig
	Sheets     SheetsConfig
	Satellite  SatelliteConfig
	Monitoring MonitoringConfig
	Forage     ForageConfig
	Log        LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to append report rows to a
// Google Sheet. The exporter is optional: it stays disabled when the
// credentials path is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the sheet exporter should be wired.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// SatelliteConfig contains credentials and options for the satellite index
// provider. Optional: without credentials the simulator supplies indices.
type SatelliteConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Collection   string
	MaxCloudPct  int
	Timeout      time.Duration
}

// Enabled reports whether the satellite client should be wired.
func (c SatelliteConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// MonitoringConfig holds scheduler-related settings.
type MonitoringConfig struct {
	CronSchedule string
	Timezone     string
}

// ForageConfig holds pipeline tuning knobs.
type ForageConfig struct {
	MaxGrazingDays  float64
	AnalysisWorkers int
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	maxGrazingDays, err := parseFloatEnv("FORAGE_MAX_GRAZING_DAYS", 120)
	if err != nil {
		return nil, err
	}

	workers, err := parseIntEnv("ANALYSIS_WORKERS", 8)
	if err != nil {
		return nil, err
	}

	maxCloud, err := parseIntEnv("SATELLITE_MAX_CLOUD_PCT", 20)
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(getenvWithDefault("SATELLITE_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SATELLITE_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "diagnostico_forrajero"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_REPORT_ID"),
		},
		Satellite: SatelliteConfig{
			BaseURL:      getenvWithDefault("SATELLITE_BASE_URL", "https://services.sentinel-hub.com"),
			ClientID:     os.Getenv("SATELLITE_CLIENT_ID"),
			ClientSecret: os.Getenv("SATELLITE_CLIENT_SECRET"),
			Collection:   getenvWithDefault("SATELLITE_COLLECTION", "sentinel-2-l2a"),
			MaxCloudPct:  maxCloud,
			Timeout:      timeout,
		},
		Monitoring: MonitoringConfig{
			CronSchedule: getenvWithDefault("MONITOR_CRON_SCHEDULE", "0 6 1 * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Argentina/Buenos_Aires"),
		},
		Forage: ForageConfig{
			MaxGrazingDays:  maxGrazingDays,
			AnalysisWorkers: workers,
		},
		Log: LogConfig{
			Level:  getenvWithDefault("LOG_LEVEL", "info"),
			Format: getenvWithDefault("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_REPORT_ID must be provided when sheets credentials are set")
	}

	if c.Satellite.Enabled() && c.Satellite.BaseURL == "" {
		return errors.New("SATELLITE_BASE_URL must not be empty when satellite credentials are set")
	}

	if c.Monitoring.CronSchedule == "" {
		return errors.New("MONITOR_CRON_SCHEDULE must be provided")
	}

	if c.Monitoring.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Forage.MaxGrazingDays <= 0 {
		return errors.New("FORAGE_MAX_GRAZING_DAYS must be > 0")
	}

	if c.Forage.AnalysisWorkers < 1 {
		return errors.New("ANALYSIS_WORKERS must be >= 1")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func parseIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
