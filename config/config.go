package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	APP_ENV    string
	PORT       string
	DB_URL     string
	JWT_SECRET string
	APP_URL    string

	CORS_ORIGIN string

	// Session gate: redirect unauthenticated requests on unknown paths to login.
	GATE_DEFAULT_DENY bool
	SESSION_TTL_HOURS int
	COOKIE_SECURE     bool

	REDIS_URL string

	MAIL_FROM      string
	RESEND_API_KEY string
	SMTP_HOST      string
	SMTP_PORT      string
	SMTP_USER      string
	SMTP_PASSWORD  string

	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string
	STRIPE_PRODUCT_ID     string

	GOOGLE_CLIENT_ID     string
	GOOGLE_CLIENT_SECRET string
	GOOGLE_REDIRECT_URL  string
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using system environment variables")
	}

	APP_ENV = getEnv("APP_ENV", "development")
	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	APP_URL = strings.TrimRight(getEnv("APP_URL", "http://localhost:8080"), "/")

	CORS_ORIGIN = getEnv("CORS_ORIGIN", APP_URL)

	GATE_DEFAULT_DENY = getBool("GATE_DEFAULT_DENY", false)
	SESSION_TTL_HOURS = getInt("SESSION_TTL_HOURS", 24*7)
	COOKIE_SECURE = getBool("COOKIE_SECURE", APP_ENV == "production")

	REDIS_URL = getEnv("REDIS_URL", "")

	MAIL_FROM = getEnv("MAIL_FROM", "Digitale Speisekarte <noreply@localhost>")
	RESEND_API_KEY = getEnv("RESEND_API_KEY", "")
	SMTP_HOST = getEnv("SMTP_HOST", "")
	SMTP_PORT = getEnv("SMTP_PORT", "587")
	SMTP_USER = getEnv("SMTP_USER", "")
	SMTP_PASSWORD = getEnv("SMTP_PASSWORD", "")

	// Billing and Google sign-in are optional; dependent handlers answer 500 when unset.
	STRIPE_SECRET_KEY = getEnv("STRIPE_SECRET_KEY", "")
	STRIPE_WEBHOOK_SECRET = getEnv("STRIPE_WEBHOOK_SECRET", "")
	STRIPE_PRODUCT_ID = getEnv("STRIPE_PRODUCT_ID", "")

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", APP_URL+"/auth/google/callback")
}

func IsProduction() bool {
	return APP_ENV == "production"
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		slog.Error("missing required environment variable", "key", key)
		os.Exit(1)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		slog.Warn("invalid boolean environment variable, using default", "key", key, "value", v)
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		slog.Warn("invalid integer environment variable, using default", "key", key, "value", v)
		return fallback
	}
	return n
}
