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

// requirement names a setting that must be present and how to read it off a Config.
type requirement struct {
	name  string
	value func(*Config) string
}

var (
	databaseRequirements = []requirement{
		{"DB_HOST", func(c *Config) string { return c.DBHost }},
		{"DB_USER", func(c *Config) string { return c.DBUser }},
		{"DB_PASSWORD", func(c *Config) string { return c.DBPassword }},
		{"DB_NAME", func(c *Config) string { return c.DBName }},
		{"JWT_SECRET", func(c *Config) string { return c.JWTSecret }},
	}

	// Environment-specific requirements on top of the database ones
	requirements = map[Environment][]requirement{
		Development: nil,
		Test:        nil,
		CI:          nil,
		Production: {
			{"S3_BUCKET_NAME", func(c *Config) string { return c.S3Bucket }},
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errs []ValidationError
	for _, req := range append(append([]requirement{}, databaseRequirements...), requirements[env]...) {
		if req.value(cfg) == "" {
			errs = append(errs, ValidationError{Field: req.name, Message: requiredMessage(env, req.name)})
		}
	}

	if env == Production && len(cfg.JWTSecret) > 0 && len(cfg.JWTSecret) < 32 {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must be at least 32 characters in production"})
	}

	if cfg.RecipeCreationLimit <= 0 {
		errs = append(errs, ValidationError{Field: "RECIPE_CREATION_LIMIT", Message: "must be positive"})
	}
	if cfg.RecipeModificationLimit <= 0 {
		errs = append(errs, ValidationError{Field: "RECIPE_MODIFICATION_LIMIT", Message: "must be positive"})
	}

	if len(errs) > 0 {
		lines := make([]string, 0, len(errs))
		for _, e := range errs {
			lines = append(lines, e.Error())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(lines, "\n"))
	}

	return nil
}

func requiredMessage(env Environment, name string) string {
	if env == CI {
		return fmt.Sprintf("environment variable %s is required in CI environment", name)
	}
	return fmt.Sprintf("set %s or the %s secret", name, strings.ToLower(name))
}
