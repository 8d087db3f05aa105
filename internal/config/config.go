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

	Delimiter       string
	ColumnProfile   string
	MappingPath     string
	CorrectionsPath string

	SheetURL       string
	FetchTimeoutMs int

	ImportSkipBackup bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "codexnova.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		Delimiter:       getEnv("SHEET_DELIMITER", ","),
		ColumnProfile:   getEnv("COLUMN_PROFILE", "auto"),
		MappingPath:     getEnv("RATE_PLAN_MAPPING_PATH", ""),
		CorrectionsPath: getEnv("CORRECTIONS_PATH", ""),

		SheetURL:       getEnv("SHEET_URL", ""),
		FetchTimeoutMs: getEnvInt("FETCH_TIMEOUT_MS", 30000),

		ImportSkipBackup: getEnvBool("IMPORT_SKIP_BACKUP", false),
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

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
