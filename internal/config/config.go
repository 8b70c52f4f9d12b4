package config

import (
	"fmt"
	"os"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendLocal    = "local"
	BackendPostgres = "postgres"
)

type Config struct {
	ListenAddr  string
	DataBackend string
	DBPath      string
	DataDir     string
	DatabaseURL string
	LogLevel    string
	LogFile     string
	LogFormat   string
	Theme       string
}

func Load() *Config {
	return &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		DataBackend: getEnv("DATA_BACKEND", BackendSQLite),
		DBPath:      getEnv("DB_PATH", "prepstock.db"),
		DataDir:     getEnv("DATA_DIR", "data"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", ""),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		Theme:       getEnv("THEME", "classic"),
	}
}

// Validate checks the settings that have no usable fallback.
func (c *Config) Validate() error {
	switch c.DataBackend {
	case BackendSQLite, BackendLocal:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DATA_BACKEND=%s", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown DATA_BACKEND %q", c.DataBackend)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
