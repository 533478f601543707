package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBUrl        string
	MongoURI     string
	MongoDB      string
	JWTSecret    string
	TokenTTL     time.Duration
	AppEnv       string
	LogLevel     string
	ResendAPIKey string
	MailFrom     string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	tokenTTL, err := getEnvDuration("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DBUrl:        getEnv("DB_URL", ""),
		MongoURI:     getEnv("MONGODB_URI", ""),
		MongoDB:      getEnv("MONGODB_DB", "liftlegends"),
		JWTSecret:    jwtSecret,
		TokenTTL:     tokenTTL,
		AppEnv:       normalizeEnv(getEnv("APP_ENV", "production")),
		LogLevel:     getEnv("LOG_LEVEL", ""),
		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		MailFrom:     getEnv("MAIL_FROM", "Lift Legends <no-reply@liftlegends.app>"),
	}
	if cfg.DBUrl == "" && cfg.MongoURI == "" {
		return nil, fmt.Errorf("at least one of DB_URL or MONGODB_URI is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, value)
	}
	return parsed, nil
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) PostgresEnabled() bool {
	return c != nil && c.DBUrl != ""
}

func (c *Config) MongoEnabled() bool {
	return c != nil && c.MongoURI != ""
}

func (c *Config) MailEnabled() bool {
	return c != nil && c.ResendAPIKey != ""
}
