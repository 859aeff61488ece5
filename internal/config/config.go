package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort        string
	DatabaseType      string
	DatabasePath      string
	DatabaseURL       string
	MigrationsPath    string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	CatalogPath       string
	SessionSecret     string
	SessionDuration   time.Duration
	CSRFEnabled       bool
	RateLimit         int
	RateWindow        time.Duration
	CORSOrigins       []string
	MaxCodeBytes      int
	RabbitMQURL       string
	EventsQueue       string
}

const defaultSessionSecret = "dev-secret-change-me"

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first; variables already
// set in the environment take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	cfg := &Config{
		ServerPort:        getEnv("PORT", "4000"),
		DatabaseType:      strings.ToLower(getEnv("DB_TYPE", "memory")),
		DatabasePath:      getEnv("DB_PATH", "./codespark.db"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", ""),
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 0),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 0),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 0),
		CatalogPath:       getEnv("CATALOG_PATH", ""),
		SessionSecret:     getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionDuration:   getEnvDuration("SESSION_DURATION", 30*24*time.Hour),
		CSRFEnabled:       getEnvBool("CSRF_ENABLED", false),
		RateLimit:         getEnvInt("RATE_LIMIT", 60),
		RateWindow:        getEnvDuration("RATE_WINDOW", time.Minute),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
		MaxCodeBytes:      getEnvInt("MAX_CODE_BYTES", 64*1024),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		EventsQueue:       getEnv("EVENTS_QUEUE", "codespark.progress"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.SessionSecret == defaultSessionSecret {
		log.Println("Warning: SESSION_SECRET is not set, using the development default")
	}

	return cfg, nil
}

// Validate checks values that have no safe fallback
func (c *Config) Validate() error {
	switch c.DatabaseType {
	case "memory", "sqlite", "sqlite3":
	case "postgres", "postgresql", "mysql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for DB_TYPE=%s", c.DatabaseType)
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE: %s", c.DatabaseType)
	}

	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("RATE_WINDOW must be positive, got %s", c.RateWindow)
	}
	if c.SessionDuration <= 0 {
		return fmt.Errorf("SESSION_DURATION must be positive, got %s", c.SessionDuration)
	}
	if c.MaxCodeBytes <= 0 {
		return fmt.Errorf("MAX_CODE_BYTES must be positive, got %d", c.MaxCodeBytes)
	}
	return nil
}

// UsesMemoryStore reports whether progress is kept in process memory only
func (c *Config) UsesMemoryStore() bool {
	return c.DatabaseType == "memory"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
