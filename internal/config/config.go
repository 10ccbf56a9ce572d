package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	APIBaseURL    string
	APIToken      string
	APITimeoutMs  int
	FetchPageSize int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		APIBaseURL:    strings.TrimRight(getEnv("INVENTORY_API_BASE_URL", "http://localhost:8000/api"), "/"),
		APIToken:      getEnv("INVENTORY_API_TOKEN", ""),
		APITimeoutMs:  getEnvInt("INVENTORY_TIMEOUT_MS", 30000),
		FetchPageSize: getEnvInt("INVENTORY_FETCH_PAGE_SIZE", 1000),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
