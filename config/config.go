package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the catalog API and the web front
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost string
	ServerPort string
	WebPort    string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration; RedisURL wins over host and port
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Admin authentication
	JWTSecret         string
	AdminPasswordHash string

	// Catalog API as seen by the web front
	APIBaseURL string
	APITimeout time.Duration

	// Third-party recipe search
	ExternalAPIURL     string
	ExternalProxyURL   string
	ExternalRatePerSec float64

	// Ingredient autocomplete list
	IngredientsSource  string
	IngredientsRefresh string

	// Object storage for recipe images
	S3BucketName string
	AWSRegion    string

	CORSOrigins            []string
	RateLimitCreatePerHour int
}

// LoadConfig reads .env (when present), the environment and Docker secrets
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Environment: GetEnvironment(),

		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		WebPort:    getEnv("WEB_PORT", "8081"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getSecret("DB_PASSWORD", "db_password"),
		DBName:     getEnv("DB_NAME", "opskrifter"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "opskrifter.db"),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getSecret("REDIS_PASSWORD", "redis_password"),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecret:         getSecret("JWT_SECRET", "jwt_secret"),
		AdminPasswordHash: getSecret("ADMIN_PASSWORD_HASH", "admin_password_hash"),

		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		APITimeout: getEnvAsDuration("API_TIMEOUT", 15*time.Second),

		ExternalAPIURL:     getEnv("EXTERNAL_API_URL", "http://www.madopskrifter.nu/webservices/iphone/iphoneclientservice.svc"),
		ExternalProxyURL:   getEnv("EXTERNAL_PROXY_URL", "https://corsproxy.io/?"),
		ExternalRatePerSec: getEnvAsFloat("EXTERNAL_RATE_PER_SEC", 2),

		IngredientsSource:  getEnv("INGREDIENTS_SOURCE", "ingredients.json"),
		IngredientsRefresh: getEnv("INGREDIENTS_REFRESH", "@every 30m"),

		S3BucketName: getEnv("S3_BUCKET_NAME", ""),
		AWSRegion:    getEnv("AWS_REGION", "eu-north-1"),

		CORSOrigins:            splitList(getEnv("CORS_ORIGINS", "*")),
		RateLimitCreatePerHour: getEnvAsInt("RATE_LIMIT_CREATE_PER_HOUR", 20),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the Postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// PostgresURL returns the connection URL used by database/sql tools
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// RedisEnabled reports whether a Redis server is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// RedisAddr returns host:port of the configured Redis server
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// ObjectStorageEnabled reports whether image uploads can be stored
func (c *Config) ObjectStorageEnabled() bool {
	return c.S3BucketName != ""
}

// AdminAuthEnabled reports whether the admin pages require a login
func (c *Config) AdminAuthEnabled() bool {
	return c.AdminPasswordHash != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
