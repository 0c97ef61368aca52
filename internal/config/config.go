package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Shared secret for scheduler-triggered sync endpoints
	SyncAPIKey string

	// External collaborators
	InsightIQBaseURL string
	InsightIQAPIKey  string
	VeriffBaseURL    string
	VeriffAPIKey     string
	ThirdwebBaseURL  string
	ThirdwebAPIKey   string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "wavz"),
		DBPassword: getEnv("DB_PASSWORD", "wavz"),
		DBName:     getEnv("DB_NAME", "wavz"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		SyncAPIKey: getEnv("SYNC_API_KEY", ""),

		// External collaborators
		InsightIQBaseURL: getEnv("INSIGHTIQ_BASE_URL", "https://api.insightiq.ai/v1"),
		InsightIQAPIKey:  getEnv("INSIGHTIQ_API_KEY", ""),
		VeriffBaseURL:    getEnv("VERIFF_BASE_URL", "https://stationapi.veriff.com/v1"),
		VeriffAPIKey:     getEnv("VERIFF_API_KEY", ""),
		ThirdwebBaseURL:  getEnv("THIRDWEB_BASE_URL", "https://api.thirdweb.com/v1"),
		ThirdwebAPIKey:   getEnv("THIRDWEB_API_KEY", ""),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
