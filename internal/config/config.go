package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// WorkerCount bounds parallel file scanning.
	WorkerCount int
	// ScanDirName is the conventional script directory name.
	ScanDirName string
	// DefaultLanguage is used when no -l flag is given.
	DefaultLanguage string
	// StateDBPath locates the project registry database.
	StateDBPath string
	// FilterProfile names the translatability rule set.
	FilterProfile string
	// WorkFile is the default intermediate JSON path.
	WorkFile string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		WorkerCount:     getEnvInt("RT_WORKER_COUNT", 8),
		ScanDirName:     getEnv("RT_SCAN_DIR", "game"),
		DefaultLanguage: getEnv("RT_LANGUAGE", "schinese"),
		StateDBPath:     getEnv("RT_STATE_DB", defaultStateDB()),
		FilterProfile:   getEnv("RT_FILTER_PROFILE", "default"),
		WorkFile:        getEnv("RT_WORK_FILE", "translation_work.json"),
	}
}

func defaultStateDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".simple-renpy-translator", "state.db")
	}
	return filepath.Join(home, ".simple-renpy-translator", "state.db")
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
