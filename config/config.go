package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads a local .env file when present. Deployed environments set
// the variables directly, so a missing file is not an error.
func LoadEnv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}

var requiredEnv = []string{"JWT_SECRET", "DATABASE_URL"}

// Optional integrations and what stops working without them.
var optionalEnv = []struct{ key, effect string }{
	{"GOOGLE_MAPS_API_KEY", "delivery fees cannot be calculated"},
	{"FIREBASE_STORAGE_BUCKET", "image uploads will fail"},
	{"GOOGLE_APPLICATION_CREDENTIALS", "Firebase falls back to default credentials"},
	{"SMTP_HOST", "new order emails will not be sent"},
	{"AMQP_URL", "order events will not be published to RabbitMQ"},
	{"TELEGRAM_BOT_TOKEN", "Telegram order alerts are disabled"},
}

// ValidateEnv fails when a required variable is missing and logs a warning
// for every unset optional one.
func ValidateEnv() error {
	var missing []string
	for _, key := range requiredEnv {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	for _, opt := range optionalEnv {
		if os.Getenv(opt.key) == "" {
			log.Printf("WARNING: %s not set - %s", opt.key, opt.effect)
		}
	}
	return nil
}

// GetEnv returns the variable or defaultValue when it is unset or empty.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
