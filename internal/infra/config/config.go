package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	TelegramToken   string
	DatabaseURL     string
	RedisAddr       string // empty selects the in-memory notified ledger
	HTTPAddr        string
	ScanInterval    time.Duration
	SendTimeout     time.Duration
	RentAmount      decimal.Decimal
	DefaultLanguage string
	LogLevel        string
	Environment     string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.ScanInterval, err = durationEnv("SCAN_INTERVAL", 6*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.SendTimeout, err = durationEnv("SEND_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	amountStr := os.Getenv("RENT_AMOUNT")
	if amountStr == "" {
		amountStr = "5000"
	}
	cfg.RentAmount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RENT_AMOUNT: %w", err)
	}

	cfg.DefaultLanguage = strings.ToLower(os.Getenv("DEFAULT_LANGUAGE"))
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	return cfg, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, d)
	}
	return d, nil
}
