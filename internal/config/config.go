package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Rollover RolloverConfig
	Notify   NotifyConfig
	Sheets   SheetsConfig
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

// RolloverConfig holds the day-boundary job settings.
type RolloverConfig struct {
	CronSchedule string
	Timezone     string
}

// NotifyConfig contains credentials for the optional SMS alert gateway.
// Alerts are disabled when APIKey is empty.
type NotifyConfig struct {
	BaseURL    string
	APIKey     string
	SenderID   string
	OpsContact string
}

// SheetsConfig configures the optional day-close export to Google Sheets.
// Export is disabled when SpreadsheetID is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
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

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "milkyway"),
		},
		Rollover: RolloverConfig{
			CronSchedule: getenvWithDefault("ROLLOVER_CRON_SCHEDULE", "5 0 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
		},
		Notify: NotifyConfig{
			BaseURL:    getenvWithDefault("NOTIFY_BASE_URL", "https://api.sms-gateway.example.com"),
			APIKey:     os.Getenv("NOTIFY_API_KEY"),
			SenderID:   getenvWithDefault("NOTIFY_SENDER_ID", "MILKYWAY"),
			OpsContact: os.Getenv("NOTIFY_OPS_CONTACT"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
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

	if c.Rollover.CronSchedule == "" {
		return errors.New("ROLLOVER_CRON_SCHEDULE must be provided")
	}

	if c.Rollover.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Notify.APIKey != "" {
		if c.Notify.BaseURL == "" {
			return errors.New("NOTIFY_BASE_URL must not be empty when alerts are enabled")
		}
		if c.Notify.OpsContact == "" {
			return errors.New("NOTIFY_OPS_CONTACT must be provided when alerts are enabled")
		}
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when export is enabled")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
