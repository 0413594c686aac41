package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the typed runtime configuration. Values come from the
// environment, then an optional config.yaml, then defaults.
type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	GoogleMapsAPIKey string        `mapstructure:"GOOGLE_MAPS_API_KEY"`
	GeocodingBaseURL string        `mapstructure:"GEOCODING_BASE_URL"`
	RoutesBaseURL    string        `mapstructure:"ROUTES_BASE_URL"`
	MapsTimeout      time.Duration `mapstructure:"MAPS_TIMEOUT"`

	AMQPURL      string `mapstructure:"AMQP_URL"`
	AMQPExchange string `mapstructure:"AMQP_EXCHANGE"`

	FirebaseCredentials string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	StorageBucket       string `mapstructure:"FIREBASE_STORAGE_BUCKET"`

	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	JaegerEndpoint   string `mapstructure:"JAEGER_ENDPOINT"`

	CORSOrigins       []string      `mapstructure:"-"`
	RateLimitRequests int           `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
	RecalcWorkers     int           `mapstructure:"RECALC_WORKERS"`
}

var defaults = map[string]interface{}{
	"PORT":                           "8080",
	"DATABASE_URL":                   "",
	"GOOGLE_MAPS_API_KEY":            "",
	"GEOCODING_BASE_URL":             "https://maps.googleapis.com/maps/api/geocode/json",
	"ROUTES_BASE_URL":                "https://routes.googleapis.com",
	"MAPS_TIMEOUT":                   "10s",
	"AMQP_URL":                       "",
	"AMQP_EXCHANGE":                  "orders",
	"GOOGLE_APPLICATION_CREDENTIALS": "",
	"FIREBASE_STORAGE_BUCKET":        "",
	"TELEGRAM_BOT_TOKEN":             "",
	"JAEGER_ENDPOINT":                "",
	"CORS_ORIGINS":                   "http://localhost:3000,http://localhost:5173",
	"RATE_LIMIT_REQUESTS":            30,
	"RATE_LIMIT_WINDOW":              "1m",
	"RECALC_WORKERS":                 4,
}

// Load builds a Config. A missing config.yaml is fine; a malformed one is not.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))
	if cfg.RecalcWorkers < 1 {
		cfg.RecalcWorkers = 1
	}
	return &cfg, nil
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
