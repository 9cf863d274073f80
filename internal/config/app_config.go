package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/Makepad-fr/shopster/internal/logging"
)

// AppConfig holds everything read from the environment.
type AppConfig struct {
	APIURL      string // base URL of the collection service, without /items
	Theme       string
	HTTPAddr    string // listen address for `shopster serve`
	HTTPLogPath string
	DBPath      string // empty means the in-memory store
	Logging     *logging.Config
}

// LoadEnvFile reads .env into the process environment when it exists.
// Variables already set win over the file.
func LoadEnvFile(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() *AppConfig {
	return &AppConfig{
		APIURL:      getEnvWithDefault("SHOPSTER_API_URL", "http://localhost:4000"),
		Theme:       getEnvWithDefault("SHOPSTER_THEME", "dark"),
		HTTPAddr:    getEnvWithDefault("HTTP_ADDR", ":4000"),
		HTTPLogPath: getEnvWithDefault("HTTP_LOG_PATH", ""),
		DBPath:      getEnvWithDefault("DB_PATH", ""),
		Logging:     LoadLoggingConfigFromEnv(),
	}
}

// LoadLoggingConfigFromEnv loads logging configuration from environment variables.
func LoadLoggingConfigFromEnv() *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", "warn"),
		Format: getEnvWithDefault("LOG_FORMAT", "text"),
		Output: getEnvWithDefault("LOG_OUTPUT", "stderr"),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
