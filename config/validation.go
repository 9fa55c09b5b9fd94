package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for
// the current environment. Development and test tolerate missing API
// credentials so local runs and unit tests work against fakes; CI and
// production do not.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.ServerPort == "" {
		errs = append(errs, "server port is required")
	}
	if cfg.SessionTTL <= 0 {
		errs = append(errs, "session TTL must be positive")
	}
	if cfg.ChatRateLimit <= 0 {
		errs = append(errs, "chat rate limit must be positive")
	}

	env := GetEnvironment()
	if env == Production || env == CI {
		if cfg.InferenceAPIKey == "" {
			errs = append(errs, "inference API key is required (INFERENCE_API_KEY or inference_api_key secret)")
		}
		if cfg.JWTSecret == "" {
			errs = append(errs, "JWT secret is required (JWT_SECRET or jwt_secret secret)")
		}
		if cfg.DBPassword == "" {
			errs = append(errs, "database password is required (DB_PASSWORD or db_password secret)")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
