package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret      string
	AccessTokenTTL time.Duration

	// Machine-to-machine endpoints (scheduled threshold evaluation)
	PipelineAPIKey string

	// Reporting
	BudgetWarningThreshold decimal.Decimal
	ReportFetchTimeout     time.Duration

	// Notification events; empty AMQPURL disables publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "spendwise"),
		DBPassword: getEnv("DB_PASSWORD", "spendwise"),
		DBName:     getEnv("DB_NAME", "spendwise"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "spendwise.events"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "spendwise.notifications"),
	}

	config.AccessTokenTTL = getDuration("JWT_EXPIRES_IN", 15*time.Minute)
	config.ReportFetchTimeout = getDuration("REPORT_FETCH_TIMEOUT", 15*time.Second)
	config.BudgetWarningThreshold = getPercent("BUDGET_WARNING_THRESHOLD", 80)

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

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, fallback)
		return fallback
	}
	return d
}

// getPercent parses a percentage in (0, 100].
func getPercent(key string, fallback int64) decimal.Decimal {
	raw := getEnv(key, strconv.FormatInt(fallback, 10))
	pct, err := decimal.NewFromString(raw)
	if err != nil || !pct.IsPositive() || pct.GreaterThan(decimal.NewFromInt(100)) {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, fallback)
		return decimal.NewFromInt(fallback)
	}
	return pct
}
