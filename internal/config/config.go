package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TemplatesDir string
	TargetsDir   string
	RunsDB       string
	LogLevel     string
	BindAddr     string
	DefaultMode  string
	BatchSize    int
}

// Load reads ./.env when present (real environment variables win), then
// resolves every setting with its default.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		TemplatesDir: getEnv("TABGEN_TEMPLATES_DIR", "./templates"),
		TargetsDir:   getEnv("TABGEN_TARGETS_DIR", "./targets"),
		RunsDB:       getEnv("TABGEN_RUNS_DB", "./tabgen-runs.sqlite"),
		LogLevel:     getEnv("TABGEN_LOG_LEVEL", "info"),
		BindAddr:     getEnv("TABGEN_BIND_ADDR", ":8080"),
		DefaultMode:  getEnv("TABGEN_DEFAULT_MODE", "create"),
		BatchSize:    getEnvInt("TABGEN_BATCH_SIZE", 1000),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
