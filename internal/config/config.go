package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	CRAPIKey   string
	DBPath     string
	ServerPort string
	LogLevel   string

	// Sampling overrides, zero means "use the defaults from constants".
	InitialSampleSize int
	SampleSeed        int64
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		CRAPIKey:          getEnv("CR_API_KEY", ""),
		DBPath:            getEnv("DB_PATH", "royale-meta.db"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		InitialSampleSize: getEnvInt("INITIAL_SAMPLE_SIZE", 0),
		SampleSeed:        int64(getEnvInt("SAMPLE_SEED", 0)),
	}

	if cfg.CRAPIKey == "" {
		return nil, fmt.Errorf("CR_API_KEY is required")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int("initial_sample_size", cfg.InitialSampleSize).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

var Module = fx.Provide(Load)
