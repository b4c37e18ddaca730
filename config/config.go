package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	PORT        string
	DB_URL      string
	CORS_ORIGIN string

	SUPABASE_JWT_SECRET string

	RAZORPAY_KEY_ID         string
	RAZORPAY_KEY_SECRET     string
	RAZORPAY_WEBHOOK_SECRET string

	// When false (the default) a missing webhook secret or signature header
	// lets the event through with a warning. See the verifier.
	WEBHOOK_REQUIRE_SIGNATURE bool

	SHEETS_SPREADSHEET_ID       string
	SHEETS_RANGE                string
	GOOGLE_SERVICE_ACCOUNT_FILE string
	SYNC_CHECKPOINT_FILE        string
	SYNC_CRON                   string

	SMTP_FROM     string
	SMTP_PASSWORD string
	SMTP_HOST     string
	SMTP_PORT     string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")

	SUPABASE_JWT_SECRET = mustEnv("SUPABASE_JWT_SECRET")

	RAZORPAY_KEY_ID = getEnv("RAZORPAY_KEY_ID", "")
	RAZORPAY_KEY_SECRET = getEnv("RAZORPAY_KEY_SECRET", "")
	// Intentionally optional: staging environments run without a webhook
	// secret and rely on the fail-open path.
	RAZORPAY_WEBHOOK_SECRET = getEnv("RAZORPAY_WEBHOOK_SECRET", "")
	WEBHOOK_REQUIRE_SIGNATURE = getBoolEnv("WEBHOOK_REQUIRE_SIGNATURE", false)

	SHEETS_SPREADSHEET_ID = getEnv("SHEETS_SPREADSHEET_ID", "")
	SHEETS_RANGE = getEnv("SHEETS_RANGE", "Payments!A2:I")
	GOOGLE_SERVICE_ACCOUNT_FILE = getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	SYNC_CHECKPOINT_FILE = getEnv("SYNC_CHECKPOINT_FILE", ".sync-checkpoint")
	SYNC_CRON = getEnv("SYNC_CRON", "")

	SMTP_FROM = getEnv("SMTP_FROM", "")
	SMTP_PASSWORD = getEnv("SMTP_PASSWORD", "")
	SMTP_HOST = getEnv("SMTP_HOST", "")
	SMTP_PORT = getEnv("SMTP_PORT", "587")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean for %s: %q, using %v", key, value, fallback)
		return fallback
	}
	return b
}
