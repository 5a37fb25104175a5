// Package config содержит логику чтения конфигурации BFF маркетплейса бытовых услуг.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress     = "localhost:8080"
	defaultPaymentAPIURL  = "https://api.stripe.com"
	defaultClientTimeout  = 10 * time.Second
	defaultAllowedOrigins = "*"
	defaultRefreshEvery   = 5 * time.Minute
)

// ErrMissingAPIBaseURL возвращается, если не задан адрес REST API маркетплейса.
var ErrMissingAPIBaseURL = errors.New("API_BASE_URL is required")

// Config содержит параметры конфигурации BFF.
type Config struct {
	RunAddress            string        `env:"RUN_ADDRESS"`
	APIBaseURL            string        `env:"API_BASE_URL"`
	PaymentAPIURL         string        `env:"PAYMENT_API_URL"`
	PaymentPublishableKey string        `env:"PAYMENT_PUBLISHABLE_KEY"`
	SessionSecret         string        `env:"SESSION_SECRET"`
	HTTPClientTimeout     time.Duration `env:"HTTP_CLIENT_TIMEOUT"`
	CORSAllowedOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	FirebaseProjectID     string        `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentials   string        `env:"FIREBASE_CREDENTIALS_FILE"`
	SessionRefreshEvery   time.Duration `env:"SESSION_REFRESH_INTERVAL"`
}

// Parse считывает конфигурацию из файла .env, флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envCfg := *cfg

	var origins string
	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.APIBaseURL, "api", "", "marketplace REST API base URL")
	flag.StringVar(&cfg.PaymentAPIURL, "pay", defaultPaymentAPIURL, "payment processor API URL")
	flag.StringVar(&cfg.PaymentPublishableKey, "pk", "", "payment processor publishable key")
	flag.StringVar(&cfg.SessionSecret, "s", "", "session token signing secret")
	flag.DurationVar(&cfg.HTTPClientTimeout, "t", defaultClientTimeout, "outbound HTTP client timeout")
	flag.StringVar(&origins, "cors", defaultAllowedOrigins, "comma separated list of allowed CORS origins")
	flag.StringVar(&cfg.FirebaseProjectID, "fb", "", "firebase project id for ID token verification")
	flag.StringVar(&cfg.FirebaseCredentials, "fbc", "", "firebase service account credentials file")
	flag.DurationVar(&cfg.SessionRefreshEvery, "r", defaultRefreshEvery, "session role refresh interval")

	flag.Parse()

	cfg.CORSAllowedOrigins = splitList(origins)

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.APIBaseURL != "" {
		cfg.APIBaseURL = envCfg.APIBaseURL
	}
	if envCfg.PaymentAPIURL != "" {
		cfg.PaymentAPIURL = envCfg.PaymentAPIURL
	}
	if envCfg.PaymentPublishableKey != "" {
		cfg.PaymentPublishableKey = envCfg.PaymentPublishableKey
	}
	if envCfg.SessionSecret != "" {
		cfg.SessionSecret = envCfg.SessionSecret
	}
	if envCfg.HTTPClientTimeout != 0 {
		cfg.HTTPClientTimeout = envCfg.HTTPClientTimeout
	}
	if len(envCfg.CORSAllowedOrigins) > 0 {
		cfg.CORSAllowedOrigins = splitList(strings.Join(envCfg.CORSAllowedOrigins, ","))
	}
	if envCfg.FirebaseProjectID != "" {
		cfg.FirebaseProjectID = envCfg.FirebaseProjectID
	}
	if envCfg.FirebaseCredentials != "" {
		cfg.FirebaseCredentials = envCfg.FirebaseCredentials
	}
	if envCfg.SessionRefreshEvery != 0 {
		cfg.SessionRefreshEvery = envCfg.SessionRefreshEvery
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.HTTPClientTimeout <= 0 {
		cfg.HTTPClientTimeout = defaultClientTimeout
	}
	if cfg.SessionRefreshEvery <= 0 {
		cfg.SessionRefreshEvery = defaultRefreshEvery
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return ErrMissingAPIBaseURL
	}
	return nil
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
