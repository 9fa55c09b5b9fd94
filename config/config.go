package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration (profile store)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (session store, rate limiting)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Inference API configuration
	InferenceAPIKey string
	InferenceAPIURL string
	InferenceModel  string

	// Recipe search tool configuration
	ToolAPIKey string
	ToolAPIURL string
	ToolModel  string

	// JWT configuration
	JWTSecret string

	// Session lifetime in Redis
	SessionTTL time.Duration

	// Chat endpoint rate limiting
	ChatRateLimit  int
	ChatRateWindow time.Duration

	// CORS
	AllowedOrigins []string
}

// LoadConfig creates a new Config instance from environment variables,
// falling back to Docker secrets files for sensitive values.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getSecret("DB_USER", "db_user", "postgres"),
		DBPassword: getSecret("DB_PASSWORD", "db_password", "postgres"),
		DBName:     getEnv("DB_NAME", "mealmind"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getSecret("REDIS_PASSWORD", "redis_password", ""),
		RedisURL:      getEnv("REDIS_URL", ""),

		InferenceAPIKey: getSecret("INFERENCE_API_KEY", "inference_api_key", ""),
		InferenceAPIURL: getEnv("INFERENCE_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		InferenceModel:  getEnv("INFERENCE_MODEL", "deepseek-chat"),

		ToolAPIKey: getSecret("TOOL_API_KEY", "tool_api_key", ""),
		ToolAPIURL: getEnv("TOOL_API_URL", "https://api.perplexity.ai/chat/completions"),
		ToolModel:  getEnv("TOOL_MODEL", "sonar-pro"),

		JWTSecret: getSecret("JWT_SECRET", "jwt_secret", ""),
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	ttl, err := getDuration("SESSION_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = ttl

	window, err := getDuration("CHAT_RATE_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.ChatRateWindow = window

	cfg.ChatRateLimit = 30
	if limitStr := os.Getenv("CHAT_RATE_LIMIT"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, fmt.Errorf("invalid CHAT_RATE_LIMIT value %q: %w", limitStr, err)
		}
		cfg.ChatRateLimit = limit
	}

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// getEnv reads an environment variable with a default.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getSecret reads a sensitive value from the environment, then from a
// Docker secrets file, then falls back to the default.
func getSecret(envKey, secretName, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if v := readSecret(secretName); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return d, nil
}
