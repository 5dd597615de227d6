package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Port                   string
	Environment            string
	APIKey                 string
	RefreshIntervalSeconds int
	SeedProductCount       int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:                   getEnv("PORT", "8080"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		APIKey:                 getEnv("API_KEY", ""),
		RefreshIntervalSeconds: getEnvInt("REFRESH_INTERVAL_SECONDS", 45),
		SeedProductCount:       getEnvInt("SEED_PRODUCT_COUNT", 25),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
