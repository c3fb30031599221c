package main

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup and passed down explicitly.
type Config struct {
	Port           string
	BaseURLAPI     string
	DSN            string
	RequestTimeout time.Duration
	MaxUploadBytes int64
	FormTTL        time.Duration
}

// LoadConfig reads a .env file when there is one, then the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file, using environment variables")
	}
	return configFromEnv()
}

func configFromEnv() (Config, error) {
	cfg := Config{
		Port:       getEnv("PORT", "8080"),
		BaseURLAPI: os.Getenv("BASE_URL_API"),
		DSN:        os.Getenv("DATABASE_URL"),
	}
	if cfg.BaseURLAPI == "" {
		return Config{}, errors.New("BASE_URL_API is required")
	}

	var err error
	if cfg.RequestTimeout, err = time.ParseDuration(getEnv("REQUEST_TIMEOUT", "30s")); err != nil {
		return Config{}, errors.New("REQUEST_TIMEOUT must be a duration such as 30s")
	}
	if cfg.FormTTL, err = time.ParseDuration(getEnv("FORM_TTL", "2h")); err != nil {
		return Config{}, errors.New("FORM_TTL must be a duration such as 2h")
	}
	if cfg.MaxUploadBytes, err = strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "10485760"), 10, 64); err != nil || cfg.MaxUploadBytes <= 0 {
		return Config{}, errors.New("MAX_UPLOAD_BYTES must be a positive number of bytes")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
