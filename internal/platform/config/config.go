package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// App is the process configuration for both the API server and the survey
// sender. Values come from the environment; a local .env file is honored when
// present.
type App struct {
	Port           string
	StorageBackend string // "memory" or "postgres"
	DatabaseURL    string

	JWTSecret string
	TokenTTL  time.Duration

	AppURL    string
	FromEmail string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string

	// SurveySendConcurrency caps concurrent notification sends per occurrence.
	SurveySendConcurrency int
	// SendTimeout bounds a single notification send attempt.
	SendTimeout time.Duration
}

func Load() (App, error) {
	// Missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	cfg := App{
		Port:                  getenv("PORT", "8080"),
		StorageBackend:        getenv("STORAGE_BACKEND", "memory"),
		DatabaseURL:           databaseURLFromEnv(),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		TokenTTL:              24 * time.Hour,
		AppURL:                getenv("APP_URL", "https://ellarises.org"),
		FromEmail:             getenv("FROM_EMAIL", "noreply@ellarises.org"),
		SMTPHost:              os.Getenv("SMTP_HOST"),
		SMTPPort:              getenv("SMTP_PORT", "587"),
		SMTPUser:              os.Getenv("SMTP_USER"),
		SMTPPassword:          os.Getenv("SMTP_PASSWORD"),
		SurveySendConcurrency: 8,
		SendTimeout:           10 * time.Second,
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return App{}, fmt.Errorf("TOKEN_TTL must be a duration (e.g. 24h): %w", err)
		}
		cfg.TokenTTL = d
	}
	if v := os.Getenv("SURVEY_SEND_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return App{}, fmt.Errorf("SURVEY_SEND_CONCURRENCY must be a positive integer")
		}
		cfg.SurveySendConcurrency = n
	}
	if v := os.Getenv("SEND_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return App{}, fmt.Errorf("SEND_TIMEOUT must be a duration (e.g. 10s): %w", err)
		}
		cfg.SendTimeout = d
	}

	if cfg.StorageBackend == "postgres" && cfg.DatabaseURL == "" {
		return App{}, fmt.Errorf("missing DATABASE_URL (or DB_HOST/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	return cfg, nil
}

// databaseURLFromEnv prefers DATABASE_URL and falls back to the discrete
// DB_* variables the survey sender has historically been deployed with.
func databaseURLFromEnv() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	host := os.Getenv("DB_HOST")
	name := os.Getenv("DB_NAME")
	user := os.Getenv("DB_USER")
	if host == "" || name == "" || user == "" {
		return ""
	}
	port := getenv("DB_PORT", "5432")
	pass := os.Getenv("DB_PASSWORD")
	ssl := getenv("DB_SSL", "require")
	if ssl == "false" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(user), url.QueryEscape(pass), host, port, name, ssl)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
