package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the log analysis reports.
type Config struct {
	DBDriver     string
	DBName       string
	DatabaseURL  string
	AutoMigrate  bool
	OutputFormat string
	LogLevel     string
	SentryDSN    string
	Environment  string
}

// Output formats understood by the report printer.
const (
	OutputPlain = "plain"
	OutputGrid  = "grid"
)

const (
	defaultDBDriver     = "postgres"
	defaultDBName       = "news"
	defaultOutputFormat = OutputPlain
	defaultLogLevel     = "info"
	defaultEnvironment  = "development"
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", defaultDBDriver)),
		DBName:       getEnv("DB_NAME", defaultDBName),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		OutputFormat: strings.ToLower(getEnv("OUTPUT_FORMAT", defaultOutputFormat)),
		LogLevel:     getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:    os.Getenv("SENTRY_DSN"),
		Environment:  getEnv("ENV", defaultEnvironment),
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, eris.Errorf("invalid DB_DRIVER value: %s", cfg.DBDriver)
	}

	switch cfg.OutputFormat {
	case OutputPlain, OutputGrid:
	default:
		return nil, eris.Errorf("invalid OUTPUT_FORMAT value: %s", cfg.OutputFormat)
	}

	migrateValue := getEnv("DB_AUTO_MIGRATE", "false")
	autoMigrate, err := strconv.ParseBool(migrateValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid DB_AUTO_MIGRATE value: %s", migrateValue)
	}
	cfg.AutoMigrate = autoMigrate

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
