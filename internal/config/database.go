package config

import (
	"fmt"
	"strings"
)

// Validate validates the database configuration. The service role key is not
// checked here; its absence is reported per request.
func (c DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverPostgres, "postgresql":
		if strings.TrimSpace(c.URL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("database path cannot be empty")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Driver)
	}

	if c.MaxConns < 0 {
		return fmt.Errorf("max connections cannot be negative")
	}

	return nil
}

// Validate validates the email configuration. A provider without its
// credential is valid; the notifier degrades instead.
func (c EmailConfig) Validate() error {
	switch c.Provider {
	case ProviderResend, ProviderSES:
	default:
		return fmt.Errorf("unsupported email provider: %s", c.Provider)
	}

	if strings.TrimSpace(c.From) == "" {
		return fmt.Errorf("sender address cannot be empty")
	}

	return nil
}
