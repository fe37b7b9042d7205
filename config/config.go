package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort int

	// Data source API credentials. Every key is optional: a missing key
	// silently switches the corresponding fetcher to its mock fallback.
	NewsAPIKey         string
	TwitterBearerToken string
	AlphaVantageKey    string

	// Result cache
	CacheTTLSeconds int

	// Redis configuration (optional result cache backend)
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Database configuration (optional ledger persistence)
	DatabaseEnabled  bool
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// LLM configuration
	LLM LLMConfig
}

// LLMConfig holds LLM service configuration
type LLMConfig struct {
	Enabled  bool
	Endpoint string
	APIKey   string
	Model    string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	llmKey := os.Getenv("LLM_API_KEY")

	return &Config{
		ServerPort: getEnvInt("SERVER_PORT", 8000),

		NewsAPIKey:         os.Getenv("NEWS_API_KEY"),
		TwitterBearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
		AlphaVantageKey:    os.Getenv("ALPHA_VANTAGE_KEY"),

		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 600),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", ""),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		// Database configuration
		DatabaseEnabled:  os.Getenv("DATABASE_HOST") != "",
		DatabaseHost:     getEnvOrDefault("DATABASE_HOST", ""),
		DatabasePort:     getEnvOrDefault("DATABASE_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DATABASE_NAME", "sentient110"),
		DatabaseUser:     getEnvOrDefault("DATABASE_USER", "sentient"),
		DatabasePassword: getEnvOrDefault("DATABASE_PASSWORD", ""),

		// LLM configuration. Enabled defaults to whether a key is present
		// so that setting LLM_API_KEY alone is enough to go live.
		LLM: LLMConfig{
			Enabled:  getEnvOrDefault("LLM_ENABLED", boolString(llmKey != "")) == "true",
			Endpoint: getEnvOrDefault("LLM_ENDPOINT", "https://api.openai.com/v1"),
			APIKey:   llmKey,
			Model:    getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
		},
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
