package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		runAddress     string
		apiBaseURL     string
		paymentAPIURL  string
		publishableKey string
		sessionSecret  string
		timeout        time.Duration
		origins        []string
		firebase       string
		refreshEvery   time.Duration
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				runAddress:    "localhost:8080",
				paymentAPIURL: "https://api.stripe.com",
				timeout:       10 * time.Second,
				origins:       []string{"*"},
				refreshEvery:  5 * time.Minute,
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"RUN_ADDRESS":              "localhost:9999",
				"API_BASE_URL":             "https://api.example.com",
				"PAYMENT_API_URL":          "http://pay.local",
				"PAYMENT_PUBLISHABLE_KEY":  "pk_test_env",
				"SESSION_SECRET":           "env-secret",
				"HTTP_CLIENT_TIMEOUT":      "3s",
				"CORS_ALLOWED_ORIGINS":     "https://a.example.com, https://b.example.com",
				"FIREBASE_PROJECT_ID":      "homeservices-env",
				"SESSION_REFRESH_INTERVAL": "1m",
			},
			flags: []string{},
			want: want{
				runAddress:     "localhost:9999",
				apiBaseURL:     "https://api.example.com",
				paymentAPIURL:  "http://pay.local",
				publishableKey: "pk_test_env",
				sessionSecret:  "env-secret",
				timeout:        3 * time.Second,
				origins:        []string{"https://a.example.com", "https://b.example.com"},
				firebase:       "homeservices-env",
				refreshEvery:   time.Minute,
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", "localhost:7777",
				"-api", "http://flag-api:3000",
				"-pk", "pk_test_flag",
				"-t", "250ms",
				"-cors", "http://localhost:5173",
				"-fb", "homeservices-flag",
			},
			want: want{
				runAddress:     "localhost:7777",
				apiBaseURL:     "http://flag-api:3000",
				paymentAPIURL:  "https://api.stripe.com",
				publishableKey: "pk_test_flag",
				timeout:        250 * time.Millisecond,
				origins:        []string{"http://localhost:5173"},
				firebase:       "homeservices-flag",
				refreshEvery:   5 * time.Minute,
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"RUN_ADDRESS":          "env:9000",
				"API_BASE_URL":         "http://env-api",
				"CORS_ALLOWED_ORIGINS": "https://env.example.com",
			},
			flags: []string{
				"-a", "flag:8000",
				"-api", "http://flag-api",
				"-cors", "https://flag.example.com",
			},
			want: want{
				runAddress:    "env:9000",
				apiBaseURL:    "http://env-api",
				paymentAPIURL: "https://api.stripe.com",
				timeout:       10 * time.Second,
				origins:       []string{"https://env.example.com"},
				refreshEvery:  5 * time.Minute,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.runAddress, cfg.RunAddress)
			assert.Equal(t, tt.want.apiBaseURL, cfg.APIBaseURL)
			assert.Equal(t, tt.want.paymentAPIURL, cfg.PaymentAPIURL)
			assert.Equal(t, tt.want.publishableKey, cfg.PaymentPublishableKey)
			assert.Equal(t, tt.want.sessionSecret, cfg.SessionSecret)
			assert.Equal(t, tt.want.timeout, cfg.HTTPClientTimeout)
			assert.Equal(t, tt.want.origins, cfg.CORSAllowedOrigins)
			assert.Equal(t, tt.want.firebase, cfg.FirebaseProjectID)
			assert.Equal(t, tt.want.refreshEvery, cfg.SessionRefreshEvery)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&Config{}).Validate(), ErrMissingAPIBaseURL)
	assert.ErrorIs(t, (&Config{APIBaseURL: "   "}).Validate(), ErrMissingAPIBaseURL)
	assert.NoError(t, (&Config{APIBaseURL: "https://api.example.com"}).Validate())
}
