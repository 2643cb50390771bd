package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application-level settings loaded from the environment.
// Database connection settings are read by the db package directly.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	Debug       bool

	Host string
	Port string

	CORSOrigins []string

	// StaticDir is the directory containing the built frontend. Static
	// serving is skipped entirely when the directory does not exist.
	StaticDir string

	// APILogFile and APILogPaths configure the development-only API traffic
	// logger. The logger is active only when Debug is true.
	APILogFile  string
	APILogPaths []string

	// Redis cache settings, consumed by the db package.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from environment variables, applying local
// development defaults for anything unset.
func Load() *Config {
	return &Config{
		AppName:     getEnvOrDefault("APP_NAME", "Friendo"),
		AppVersion:  getEnvOrDefault("APP_VERSION", "1.0.0"),
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		Debug:       getEnvBool("DEBUG", false),
		Host:        getEnvOrDefault("HOST", "0.0.0.0"),
		Port:        getEnvOrDefault("PORT", "8000"),
		CORSOrigins: splitAndTrim(getEnvOrDefault("CORS_ORIGINS", "*")),
		StaticDir:   getEnvOrDefault("STATIC_DIR", "./static"),
		APILogFile:  getEnvOrDefault("API_LOG_FILE", "api-logs.txt"),
		APILogPaths: splitAndTrim(getEnvOrDefault("API_LOG_PATHS", "/users,/tasks,/energy,/api")),

		RedisAddr:     getEnvOrDefault("REDIS_HOST", "localhost") + ":" + getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
	}
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvOrDefault returns the environment variable value or a default value if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
