package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// WorkerCount bounds parallel per-document processing.
	WorkerCount int
	// SourceEncoding names the encoding of raw byte-buffer text fields
	// ("utf8" or "sjis").
	SourceEncoding string
	// DatabaseURL enables the Postgres translation memory when set.
	DatabaseURL string
	// LogLevel is a zerolog level name.
	LogLevel string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		WorkerCount:    getEnvInt("WORKER_COUNT", 8),
		SourceEncoding: getEnv("SOURCE_ENCODING", "utf8"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
