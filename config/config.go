package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	AutoMigrate   bool
	MigrationsDir string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret    string
	CookieSecure bool

	// Media storage
	S3Bucket     string
	AWSRegion    string
	MediaBaseURL string

	// Outgoing mail
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	// Logging
	LogLevel  string
	LogFormat string

	// Requests allowed per user per minute
	RecipeCreationLimit     int
	RecipeModificationLimit int
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	var cfg *Config
	switch env {
	case CI:
		cfg = loadConfig(os.Getenv)
	case Development, Test:
		cfg = loadConfig(lookup)
		applyDevDefaults(cfg)
	case Production:
		cfg = loadConfig(lookup)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisAddr returns host:port for the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func loadConfig(get func(string) string) *Config {
	cfg := &Config{
		ServerPort:    withDefault(get("SERVER_PORT"), "8080"),
		ServerHost:    withDefault(get("SERVER_HOST"), "0.0.0.0"),
		CORSOrigins:   splitList(withDefault(get("CORS_ORIGINS"), "http://localhost:5173")),
		DBHost:        get("DB_HOST"),
		DBPort:        withDefault(get("DB_PORT"), "5432"),
		DBUser:        get("DB_USER"),
		DBPassword:    get("DB_PASSWORD"),
		DBName:        get("DB_NAME"),
		DBSSLMode:     withDefault(get("DB_SSL_MODE"), "disable"),
		AutoMigrate:   parseBool(get("AUTO_MIGRATE"), false),
		MigrationsDir: withDefault(get("MIGRATIONS_DIR"), "migrations"),
		RedisHost:     get("REDIS_HOST"),
		RedisPort:     withDefault(get("REDIS_PORT"), "6379"),
		RedisPassword: get("REDIS_PASSWORD"),
		RedisDB:       parseInt(get("REDIS_DB"), 0),
		RedisURL:      get("REDIS_URL"),
		JWTSecret:     get("JWT_SECRET"),
		CookieSecure:  parseBool(get("COOKIE_SECURE"), true),
		S3Bucket:      get("S3_BUCKET_NAME"),
		AWSRegion:     withDefault(get("AWS_REGION"), "us-east-1"),
		MediaBaseURL:  get("MEDIA_BASE_URL"),
		SMTPHost:      get("SMTP_HOST"),
		SMTPPort:      withDefault(get("SMTP_PORT"), "587"),
		SMTPUsername:  get("SMTP_USERNAME"),
		SMTPPassword:  get("SMTP_PASSWORD"),
		EmailFrom:     withDefault(get("EMAIL_FROM"), "noreply@recipebook.local"),
		LogLevel:      withDefault(get("LOG_LEVEL"), "info"),
		LogFormat:     withDefault(get("LOG_FORMAT"), "json"),

		RecipeCreationLimit:     parseInt(get("RECIPE_CREATION_LIMIT"), 10),
		RecipeModificationLimit: parseInt(get("RECIPE_MODIFICATION_LIMIT"), 30),
	}
	return cfg
}

// applyDevDefaults fills in a local stack so development needs no secrets.
func applyDevDefaults(cfg *Config) {
	cfg.DBHost = withDefault(cfg.DBHost, "localhost")
	cfg.DBUser = withDefault(cfg.DBUser, "postgres")
	cfg.DBPassword = withDefault(cfg.DBPassword, "postgres")
	cfg.DBName = withDefault(cfg.DBName, "recipebook")
	cfg.RedisHost = withDefault(cfg.RedisHost, "localhost")
	cfg.JWTSecret = withDefault(cfg.JWTSecret, "dev-secret-change-me")
	cfg.LogFormat = withDefault(os.Getenv("LOG_FORMAT"), "console")
	cfg.CookieSecure = parseBool(lookup("COOKIE_SECURE"), false)
}

// lookup returns the environment variable if set, otherwise the Docker
// secret with the lower-cased name.
func lookup(name string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return readSecret(strings.ToLower(name))
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(value string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return b
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
