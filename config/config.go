// Package config loads process settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort        = "8080"
	defaultDatabaseURL = "user=postgres password=password dbname=learnlanguage host=localhost port=5432 sslmode=disable"
	defaultEnvFile     = ".env"

	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds runtime settings for the API server.
type Config struct {
	Port              string
	StoreDriver       string
	DatabaseURL       string
	AccessTokenSecret string
	PaymentSecretKey  string
	PaymentAPIURL     string
	AllowedOrigins    []string
}

// Load reads envFiles (".env" when none are given) into the process
// environment without overriding variables that are already set, then
// builds a Config from the environment. Missing env files are ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{defaultEnvFile}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}

	cfg := Config{
		Port:              getEnv("PORT", defaultPort),
		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		AccessTokenSecret: os.Getenv("ACCESS_TOKEN"),
		PaymentSecretKey:  os.Getenv("PAYMENT_SECRET_KEY"),
		PaymentAPIURL:     os.Getenv("PAYMENT_API_URL"),
		AllowedOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		cfg.DatabaseURL = os.Getenv("DB_CONNECTION_STRING")
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = defaultDatabaseURL
			slog.Warn("DB_CONNECTION_STRING not set, using default local connection string")
		}
	case StoreDriverMemory:
		slog.Warn("STORE_DRIVER=memory: data is kept in process and lost on restart")
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.AccessTokenSecret == "" {
		return Config{}, errors.New("ACCESS_TOKEN must be set to sign access tokens")
	}
	if cfg.PaymentSecretKey == "" {
		slog.Warn("PAYMENT_SECRET_KEY not set. Payment intents will fail at runtime.")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}
