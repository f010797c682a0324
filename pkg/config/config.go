package config

import (
	"fmt"
	"os"
	"strconv"
)

// Storage driver names accepted by STORAGE_DRIVER.
const (
	StorageDriverMemory   = "memory"
	StorageDriverRedis    = "redis"
	StorageDriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Booking  BookingConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// StorageConfig selects the snapshot persistence backend
type StorageConfig struct {
	Driver string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// BookingConfig holds booking policy configuration
type BookingConfig struct {
	// WindowDays bounds how far ahead an appointment may be booked
	WindowDays int
	// Strict re-validates slot availability against the latest persisted
	// snapshot inside the booking operation
	Strict bool
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", StorageDriverMemory),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "careslot"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Booking: BookingConfig{
			WindowDays: getEnvAsInt("BOOKING_WINDOW_DAYS", 30),
			Strict:     getEnvAsBool("STRICT_BOOKING", true),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "careslot-backend"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	switch cfg.Storage.Driver {
	case StorageDriverMemory, StorageDriverRedis, StorageDriverPostgres:
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
	}

	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
