package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port" validate:"required,numeric"`
	Env             string        `json:"env" validate:"oneof=development production test"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" validate:"gte=0"`
	HTTPTimeout     time.Duration `json:"http_timeout" validate:"gte=0"`

	// Site fetching. A zero FetchTimeout leaves the transport default in charge.
	FetchTimeout time.Duration `json:"fetch_timeout" validate:"gte=0"`
	ResourceFile string        `json:"resource_file" validate:"required"`
	SecureScheme string        `json:"secure_scheme" validate:"required"`

	// Rendering
	BaseDomain string `json:"base_domain" validate:"required,url"`
	PublicHost string `json:"public_host" validate:"required,url"`
	DateLayout string `json:"date_layout" validate:"required"`

	// Snapshot store. An empty RedisURL selects the in-memory store.
	RedisURL string `json:"redis_url" validate:"omitempty,url"`
	RedisKey string `json:"redis_key" validate:"required"`

	// Static export
	StaticDir string `json:"static_dir" validate:"required"`

	// CloudFlare R2 Configuration
	R2Endpoint  string `json:"r2_endpoint" validate:"omitempty,url"`
	R2AccessKey string `json:"r2_access_key" validate:"required_with=R2Endpoint"`
	R2SecretKey string `json:"r2_secret_key" validate:"required_with=R2Endpoint"`
	R2Bucket    string `json:"r2_bucket" validate:"required_with=R2Endpoint"`

	// Logging
	LogLevel string `json:"log_level" validate:"oneof=debug info warn error fatal panic disabled"`
	LogFile  string `json:"log_file"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// FromEnv builds a Config from the process environment without validating it.
func FromEnv() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		FetchTimeout: getEnvAsDuration("FETCH_TIMEOUT", 0),
		ResourceFile: getEnv("RESOURCE_FILE", "site.json"),
		SecureScheme: getEnv("SECURE_SCHEME", "https://"),

		BaseDomain: getEnv("BASE_DOMAIN", "https://haxtheweb.org"),
		PublicHost: getEnv("PUBLIC_HOST", "https://haxtheweb.org"),
		DateLayout: getEnv("DATE_LAYOUT", "1/2/2006"),

		RedisURL: getEnv("REDIS_URL", ""),
		RedisKey: getEnv("REDIS_KEY", "haxsite:snapshot"),

		StaticDir: getEnv("STATIC_DIR", "./web/static"),

		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// UseRedis reports whether the snapshot store should live in Redis.
func (c *Config) UseRedis() bool {
	return c.RedisURL != ""
}

// UseR2 reports whether static exports are also published to R2.
func (c *Config) UseR2() bool {
	return c.R2Endpoint != ""
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	// Bare integers are read as seconds.
	if secs, err := strconv.Atoi(valueStr); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
