package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port            string
	LogLevel        string
	InitialBalance  float64
	JWTSecret       string
	CBRURL          string
	KeyRateSchedule string
	SMTPHost        string
	SMTPPort        string
	SMTPUsername    string
	SMTPPassword    string
	SenderEmail     string
	NotifyEmail     string
	AccountHolder   string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		CBRURL:          getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
		KeyRateSchedule: getEnv("KEY_RATE_SCHEDULE", "@daily"),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SenderEmail:     getEnv("SENDER_EMAIL", "noreply@bank.local"),
		NotifyEmail:     getEnv("NOTIFY_EMAIL", ""),
		AccountHolder:   getEnv("ACCOUNT_HOLDER", "Customer"),
	}

	balance, err := strconv.ParseFloat(getEnv("INITIAL_BALANCE", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid INITIAL_BALANCE: %w", err)
	}
	if !(balance >= 0) || math.IsInf(balance, 0) {
		return nil, fmt.Errorf("INITIAL_BALANCE must be a finite non-negative number")
	}
	cfg.InitialBalance = balance

	if cfg.Port == "" {
		return nil, fmt.Errorf("PORT is required")
	}
	if cfg.CBRURL == "" {
		return nil, fmt.Errorf("CBR_URL is required")
	}
	if cfg.SMTPHost != "" && cfg.NotifyEmail == "" {
		return nil, fmt.Errorf("NOTIFY_EMAIL is required when SMTP_HOST is set")
	}

	return cfg, nil
}

// NotificationsEnabled reports whether an SMTP relay is configured
func (c *Config) NotificationsEnabled() bool {
	return c.SMTPHost != ""
}

// AuthEnabled reports whether mutating routes require a bearer token
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
