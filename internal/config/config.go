package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	// ErrMissingStoreURI is returned when neither MONGODB_URI nor DATABASE_URL is set.
	ErrMissingStoreURI = errors.New("config: MONGODB_URI (or DATABASE_URL) must be set")

	// ErrEnvFile is returned when a present .env or .env.local cannot be parsed.
	ErrEnvFile = errors.New("config: invalid env file")
)

// Config is the process configuration, read from the environment.
type Config struct {
	Env     string
	Port    string
	BaseURL string

	StoreURI      string
	MongoDatabase string

	Auth AuthConfig
	Log  LogConfig
}

// AuthConfig carries the identity provider credentials.
type AuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	Secret             string
}

// Enabled reports whether sign-in can be offered at all.
func (a AuthConfig) Enabled() bool {
	return a.GoogleClientID != "" && a.GoogleClientSecret != ""
}

type LogConfig struct {
	Level  string
	Format string
}

// IsDevelopment reports whether APP_ENV selects development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads .env.local and .env when present, then the process environment.
// Variables already set in the environment are never overridden by the files.
// A file that exists but does not parse is an error.
func Load() (Config, error) {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrEnvFile, file, err)
		}
	}

	cfg := Config{
		Env:           getenv("APP_ENV", "production"),
		Port:          getenv("APP_PORT", "8080"),
		StoreURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getenv("MONGODB_DATABASE", "vendors"),
		Auth: AuthConfig{
			GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			Secret:             os.Getenv("AUTH_SECRET"),
		},
		Log: LogConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "json"),
		},
	}
	if cfg.StoreURI == "" {
		cfg.StoreURI = os.Getenv("DATABASE_URL")
	}
	cfg.BaseURL = strings.TrimRight(getenv("APP_BASE_URL", "http://localhost:"+cfg.Port), "/")
	if cfg.IsDevelopment() && os.Getenv("LOG_FORMAT") == "" {
		cfg.Log.Format = "console"
	}

	if cfg.StoreURI == "" {
		return cfg, ErrMissingStoreURI
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
