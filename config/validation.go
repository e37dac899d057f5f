package config

import (
	"errors"
	"fmt"
	"strconv"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration for the current environment and
// reports every problem at once.
func ValidateConfig(cfg *Config) error {
	var errs []error
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	for field, port := range map[string]string{"SERVER_PORT": cfg.ServerPort, "WEB_PORT": cfg.WebPort} {
		if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
			add(field, fmt.Sprintf("invalid port %q", port))
		}
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			add("DB_HOST", "required for postgres")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "required for postgres")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "required for sqlite")
		}
		if cfg.Environment == Production {
			add("DB_DRIVER", "sqlite is not allowed in production")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.AdminPasswordHash != "" && cfg.JWTSecret == "" {
		add("JWT_SECRET", "required when ADMIN_PASSWORD_HASH is set")
	}
	if cfg.Environment == Production && cfg.AdminPasswordHash == "" {
		add("ADMIN_PASSWORD_HASH", "required in production")
	}
	if cfg.APITimeout <= 0 {
		add("API_TIMEOUT", "must be positive")
	}
	if cfg.ExternalRatePerSec <= 0 {
		add("EXTERNAL_RATE_PER_SEC", "must be positive")
	}
	if cfg.RateLimitCreatePerHour < 0 {
		add("RATE_LIMIT_CREATE_PER_HOUR", "must not be negative")
	}

	return errors.Join(errs...)
}
