package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Environment
	Env string `json:"env"`

	// Archive store and generated output
	StoreDir  string `json:"store_dir" validate:"required"`
	OutputDir string `json:"output_dir" validate:"required"`

	// Clock policy: "today" is always computed in this location, everywhere.
	Timezone string `json:"timezone" validate:"required"`

	// Crawler
	FetchBaseURL  string        `json:"fetch_base_url"`
	FetchDelay    time.Duration `json:"fetch_delay"`
	LookbackDays  int           `json:"lookback_days" validate:"min=1"`
	ProgressEvery int           `json:"progress_every" validate:"min=1"`

	// Indexer
	RecentWindowDays int `json:"recent_window_days" validate:"min=1"`
	RecentCap        int `json:"recent_cap" validate:"min=1"`

	// AI commentary (optional; disabled when the key is empty)
	AIApiKey      string        `json:"ai_api_key"`
	AIModel       string        `json:"ai_model"`
	CommentaryTTL time.Duration `json:"commentary_ttl"`

	// Redis commentary cache
	RedisURL string `json:"redis_url"`

	// CloudFlare R2 / S3 publishing
	R2Endpoint  string `json:"r2_endpoint"`
	R2AccessKey string `json:"r2_access_key"`
	R2SecretKey string `json:"r2_secret_key"`
	R2Bucket    string `json:"r2_bucket"`

	// Preview server
	Port            string        `json:"port"`
	HTTPTimeout     time.Duration `json:"http_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Security
	AdminAPIKey string `json:"admin_api_key"`
}

// Load loads configuration from environment variables and validates it
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),

		StoreDir:  getEnv("STORE_DIR", "./data/days"),
		OutputDir: getEnv("OUTPUT_DIR", "./dist/api"),

		Timezone: getEnv("TIMEZONE", "Asia/Shanghai"),

		FetchBaseURL:  getEnv("FETCH_BASE_URL", ""),
		FetchDelay:    getEnvAsDuration("FETCH_DELAY", 900*time.Millisecond),
		LookbackDays:  getEnvAsInt("LOOKBACK_DAYS", 7),
		ProgressEvery: getEnvAsInt("PROGRESS_EVERY", 50),

		RecentWindowDays: getEnvAsInt("RECENT_WINDOW_DAYS", 30),
		RecentCap:        getEnvAsInt("RECENT_CAP", 100),

		AIApiKey:      getEnv("AI_API_KEY", ""),
		AIModel:       getEnv("AI_MODEL", "gemini-pro"),
		CommentaryTTL: getEnvAsDuration("COMMENTARY_TTL", 720*time.Hour), // 30 days

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", "newsarchive"),

		Port:            getEnv("PORT", "8080"),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Now returns the current time in the configured timezone.
func (c *Config) Now() time.Time {
	loc, err := c.Location()
	if err != nil {
		return time.Now()
	}
	return time.Now().In(loc)
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid %s value: %v, using default: %d\n", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid %s value: %v, using default: %v\n", name, err, defaultVal)
		return defaultVal
	}
	return value
}
