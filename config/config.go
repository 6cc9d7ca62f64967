package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the plant identification service
type Config struct {
	// Server configuration
	Port           string
	AllowedOrigins string

	// PlantNet configuration
	PlantNetAPIKey        string
	PlantNetDiseaseAPIKey string
	PlantNetAPIURL        string
	PlantNetDiseaseAPIURL string
	PlantNetProject       string
	PlantNetTimeout       time.Duration

	// Plant.id configuration
	PlantIDAPIKey  string
	PlantIDAPIURL  string
	PlantIDTimeout time.Duration

	// Upload limits
	MaxImageSize int64
}

// Load loads configuration from environment variables
func Load() *Config {
	config := &Config{
		// Server defaults
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		// PlantNet defaults
		PlantNetAPIKey:        getEnv("PLANTNET_API_KEY", ""),
		PlantNetDiseaseAPIKey: getEnv("PLANTNET_DISEASE_API_KEY", ""),
		PlantNetAPIURL:        getEnv("PLANTNET_API_URL", "https://my-api.plantnet.org/v2"),
		PlantNetDiseaseAPIURL: getEnv("PLANTNET_DISEASE_API_URL", "https://my-api.plantnet.org/v2"),
		PlantNetProject:       getEnv("PLANTNET_PROJECT", "all"),
		PlantNetTimeout:       getDurationEnv("PLANTNET_TIMEOUT", 30*time.Second),

		// Plant.id defaults
		PlantIDAPIKey:  getEnv("PLANT_ID_API_KEY", ""),
		PlantIDAPIURL:  getEnv("PLANT_ID_API_URL", "https://plant.id/api/v3"),
		PlantIDTimeout: getDurationEnv("PLANT_ID_TIMEOUT", 60*time.Second),

		// Upload limit defaults (10 MiB)
		MaxImageSize: getInt64Env("MAX_IMAGE_SIZE_BYTES", 10<<20),
	}

	return config
}

// DiseaseAPIKey returns the key for the PlantNet disease endpoint, falling
// back to the species key when no disease-specific key is configured.
func (c *Config) DiseaseAPIKey() string {
	if c.PlantNetDiseaseAPIKey != "" {
		return c.PlantNetDiseaseAPIKey
	}
	return c.PlantNetAPIKey
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getInt64Env gets an integer environment variable or returns a default value
func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
