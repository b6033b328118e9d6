package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"wheelhouse/database"
)

// Config holds all application configuration
type Config struct {
	// HTTP configuration
	HTTPAddr     string
	JWTSecret    string
	ClientOrigin string // Allowed CORS origin

	// Storage configuration
	Storage      string // "postgres" or "memory"
	DatabaseURL  string
	DatabaseName string

	// Game configuration
	StartingBalance     int64
	MaxWagersPerSpin    int
	MaxStakePerWager    int64 // 0 = unlimited
	DailyStakeLimit     int64 // 0 = disabled
	DailyLimitResetHour int   // Hour in UTC when the daily limit resets (0-23)
	SettleMaxRetries    int   // Attempts at applying a drawn spin before giving up

	// Discord configuration (empty token disables the bot)
	DiscordToken   string
	DiscordGuildID string

	// NATS configuration (empty disables the event bridge)
	NATSServers string

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelServiceName          string
	OTelExportIntervalMillis int

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// GetDatabaseURL combines DATABASE_URL and DATABASE_NAME
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		HTTPAddr:     getEnvWithDefault("HTTP_ADDR", ":8080"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		ClientOrigin: getEnvWithDefault("CLIENT_ORIGIN", "http://localhost:5173"),

		Storage:      getEnvWithDefault("STORAGE", StoragePostgres),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		StartingBalance:     getEnvInt64("STARTING_BALANCE", 1000),
		MaxWagersPerSpin:    int(getEnvInt64("MAX_WAGERS_PER_SPIN", 20)),
		MaxStakePerWager:    getEnvInt64("MAX_STAKE_PER_WAGER", 0),
		DailyStakeLimit:     getEnvInt64("DAILY_STAKE_LIMIT", 0),
		DailyLimitResetHour: int(getEnvInt64("DAILY_LIMIT_RESET_HOUR", 12)), // 12:00 UTC
		SettleMaxRetries:    int(getEnvInt64("SETTLE_MAX_RETRIES", 3)),

		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		NATSServers: os.Getenv("NATS_SERVERS"),

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "wheelhouse"),
		OTelExportIntervalMillis: int(getEnvInt64("OTEL_EXPORT_INTERVAL_MS", 30000)),

		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that required settings are present and in range
func (c *Config) Validate() error {
	if c.DailyLimitResetHour < 0 || c.DailyLimitResetHour > 23 {
		return fmt.Errorf("DAILY_LIMIT_RESET_HOUR must be between 0 and 23")
	}
	if c.StartingBalance < 0 {
		return fmt.Errorf("STARTING_BALANCE cannot be negative")
	}
	if c.SettleMaxRetries < 1 {
		return fmt.Errorf("SETTLE_MAX_RETRIES must be at least 1")
	}

	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.Environment != "test" && c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		// If DatabaseName is provided, ensure it's not blank
		if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
			return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}

	if c.Environment != "test" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		HTTPAddr:            ":0",
		JWTSecret:           "test-secret",
		Storage:             StorageMemory,
		StartingBalance:     1000,
		MaxWagersPerSpin:    20,
		DailyLimitResetHour: 12,
		SettleMaxRetries:    3,
		OTelExporterType:    "none",
		OTelServiceName:     "wheelhouse-test",
		LogLevel:            "debug",
		Environment:         "test",
	}
}
