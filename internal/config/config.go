package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the functions
type Config struct {
	Environment string
	Port        string
	Log         LogConfig
	Database    DatabaseConfig
	Email       EmailConfig
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// DatabaseConfig holds database configuration for the deployment writer
type DatabaseConfig struct {
	Driver         string // "postgres" or "sqlite"
	URL            string
	SQLitePath     string
	ServiceRoleKey string
	MaxConns       int
	AutoMigrate    bool
}

// EmailConfig holds email provider configuration for the backup notifier
type EmailConfig struct {
	Provider           string // "resend" or "ses"
	From               string
	ResendAPIKey       string
	SESAccessKeyID     string
	SESSecretAccessKey string
	SESRegion          string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ProviderResend = "resend"
	ProviderSES    = "ses"
)

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_SQLITE_PATH", "./data/provisioning.db")
	v.SetDefault("DB_MAX_CONNS", 4)
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("EMAIL_PROVIDER", ProviderResend)
	v.SetDefault("EMAIL_FROM", "Backup System <onboarding@resend.dev>")
	v.SetDefault("SES_REGION", "us-east-1")

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Database: DatabaseConfig{
			Driver:         strings.ToLower(v.GetString("DB_DRIVER")),
			URL:            v.GetString("DATABASE_URL"),
			SQLitePath:     v.GetString("DB_SQLITE_PATH"),
			ServiceRoleKey: v.GetString("SERVICE_ROLE_KEY"),
			MaxConns:       v.GetInt("DB_MAX_CONNS"),
			AutoMigrate:    v.GetBool("DB_AUTO_MIGRATE"),
		},
		Email: EmailConfig{
			Provider:           strings.ToLower(v.GetString("EMAIL_PROVIDER")),
			From:               v.GetString("EMAIL_FROM"),
			ResendAPIKey:       v.GetString("RESEND_API_KEY"),
			SESAccessKeyID:     v.GetString("SES_ACCESS_KEY_ID"),
			SESSecretAccessKey: v.GetString("SES_SECRET_ACCESS_KEY"),
			SESRegion:          v.GetString("SES_REGION"),
		},
	}

	return config, nil
}

// HasServiceRoleKey reports whether the database credential is present
func (c DatabaseConfig) HasServiceRoleKey() bool {
	return strings.TrimSpace(c.ServiceRoleKey) != ""
}

// IsConfigured reports whether the selected provider has its credential.
// An unconfigured provider is not an error; the notifier degrades instead.
func (c EmailConfig) IsConfigured() bool {
	switch c.Provider {
	case ProviderSES:
		return c.SESAccessKeyID != "" && c.SESSecretAccessKey != ""
	default:
		return strings.TrimSpace(c.ResendAPIKey) != ""
	}
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
