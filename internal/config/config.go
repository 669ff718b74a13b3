// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront runtime
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Services ServicesConfig
	Storage  StorageConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains configuration for the local HTTP surface
type ServerConfig struct {
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	CORSAllowedOrigins []string
}

// ServicesConfig contains the base URLs of the backend microservices
type ServicesConfig struct {
	AuthBaseURL    string
	CatalogBaseURL string
	CartBaseURL    string
	OrderBaseURL   string
	RequestTimeout time.Duration
}

// StorageConfig selects and configures the local persisted store
type StorageConfig struct {
	// Backend is "file" for a client-local data directory or "redis" when the
	// runtime hosts guest carts for a shared web frontend.
	Backend      string
	DataDir      string
	RedisHost    string
	RedisPort    string
	RedisPass    string
	RedisDB      int
	GuestCartTTL time.Duration
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront Client"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "4300"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS",
				[]string{"http://localhost:4200", "http://localhost:3000"}),
		},
		Services: ServicesConfig{
			AuthBaseURL:    getEnv("AUTH_SERVICE_URL", "http://localhost:8080"),
			CatalogBaseURL: getEnv("CATALOG_SERVICE_URL", "http://localhost:8082"),
			CartBaseURL:    getEnv("CART_SERVICE_URL", "http://localhost:8083"),
			OrderBaseURL:   getEnv("ORDER_SERVICE_URL", "http://localhost:8084"),
			RequestTimeout: getEnvAsDuration("SERVICE_REQUEST_TIMEOUT", 15*time.Second),
		},
		Storage: StorageConfig{
			Backend:      getEnv("STORAGE_BACKEND", "file"),
			DataDir:      getEnv("STORAGE_DATA_DIR", "./data"),
			RedisHost:    getEnv("REDIS_HOST", "localhost"),
			RedisPort:    getEnv("REDIS_PORT", "6379"),
			RedisPass:    getEnv("REDIS_PASSWORD", ""),
			RedisDB:      getEnvAsInt("REDIS_DB", 0),
			GuestCartTTL: getEnvAsDuration("GUEST_CART_TTL", 24*time.Hour),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	services := map[string]string{
		"AUTH_SERVICE_URL":    c.Services.AuthBaseURL,
		"CATALOG_SERVICE_URL": c.Services.CatalogBaseURL,
		"CART_SERVICE_URL":    c.Services.CartBaseURL,
		"ORDER_SERVICE_URL":   c.Services.OrderBaseURL,
	}
	for name, url := range services {
		if url == "" {
			return fmt.Errorf("%s is required", name)
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return fmt.Errorf("%s must be an http(s) URL", name)
		}
	}

	switch c.Storage.Backend {
	case "file":
		if c.Storage.DataDir == "" {
			return fmt.Errorf("STORAGE_DATA_DIR is required for the file backend")
		}
	case "redis":
		if c.Storage.RedisHost == "" {
			return fmt.Errorf("REDIS_HOST is required for the redis backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be \"file\" or \"redis\"")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Storage.RedisHost, c.Storage.RedisPort)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
