package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	LogLevel string

	// Market data
	MarketFile     string
	DBConn         string
	RateFeedURL    string
	RateFeedPath   string
	RateFeedMargin float64
	ReloadSchedule string

	// Lead notifications
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	OwnerEmail   string

	// Lead submission rate limiting
	RedisAddr       string
	RateLimit       int
	RateLimitWindow time.Duration
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		MarketFile:     getEnv("MARKET_FILE", ""),
		DBConn:         getEnv("DB_CONN", ""),
		RateFeedURL:    getEnv("RATE_FEED_URL", ""),
		RateFeedPath:   getEnv("RATE_FEED_PATH", "//rate"),
		ReloadSchedule: getEnv("RELOAD_SCHEDULE", ""),
		SMTPHost:       getEnv("SMTP_HOST", "localhost"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SenderEmail:    getEnv("SENDER_EMAIL", "noreply@hypo-valassko.cz"),
		OwnerEmail:     getEnv("OWNER_EMAIL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
	}

	var err error
	if cfg.RateFeedMargin, err = strconv.ParseFloat(getEnv("RATE_FEED_MARGIN", "0"), 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_FEED_MARGIN: %w", err)
	}
	if cfg.RateLimit, err = strconv.Atoi(getEnv("RATE_LIMIT", "5")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT: %w", err)
	}
	if cfg.RateLimitWindow, err = time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}

	if cfg.Port == "" {
		return nil, fmt.Errorf("PORT is required")
	}
	if cfg.OwnerEmail == "" {
		return nil, fmt.Errorf("OWNER_EMAIL is required")
	}
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST is required")
	}
	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT must be positive")
	}
	if cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
