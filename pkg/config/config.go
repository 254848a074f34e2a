package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Storage drivers selectable via STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Port        string
	StoreDriver string
	SQLitePath  string
	DBConn      string
	JWTSecret   string
	LogLevel    string
	// SummarySchedule is the cron expression for the nightly branch
	// summary job; empty disables it.
	SummarySchedule string
}

// NewConfig loads configuration from the environment, reading a .env file
// first when one exists.
func NewConfig() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		StoreDriver:     getEnv("STORE_DRIVER", DriverSQLite),
		SQLitePath:      getEnv("SQLITE_PATH", "osmfs.db"),
		DBConn:          getEnv("DB_CONN", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		SummarySchedule: getEnv("SUMMARY_SCHEDULE", "0 18 * * *"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.StoreDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DBConn == "" {
			return nil, fmt.Errorf("DB_CONN is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
