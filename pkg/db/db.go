package db

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MigrationsTable is the golang-migrate version table
const MigrationsTable = "go_schema_migrations"

// ErrNoDatabaseURL is returned when neither Config.URL nor DATABASE_URL is set
var ErrNoDatabaseURL = errors.New("DATABASE_URL environment variable is required")

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to DATABASE_URL env var)
	URL string
	// LogLevel overrides CORESEC_LOG_LEVEL; "debug" logs every statement
	LogLevel string
}

// Connect establishes a database connection.
// If no URL is provided, it reads from DATABASE_URL environment variable.
func Connect(cfg Config) (*gorm.DB, error) {
	dbURL := cfg.URL
	if dbURL == "" {
		dbURL = URL()
	}
	if dbURL == "" {
		return nil, ErrNoDatabaseURL
	}

	level := cfg.LogLevel
	if level == "" {
		level = os.Getenv("CORESEC_LOG_LEVEL")
	}

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{
			Logger:         logger.Default.LogMode(logMode(level)),
			TranslateError: true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// logMode is silent unless level asks for more
func logMode(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.Info
	case "warn", "warning":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}

// URL returns the database URL from environment.
// Returns empty string if DATABASE_URL is not set.
func URL() string {
	return os.Getenv("DATABASE_URL")
}

// MigrationsURL adds the x-migrations-table parameter so golang-migrate
// tracks versions in MigrationsTable
func MigrationsURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}
	param := "x-migrations-table=" + MigrationsTable
	if strings.Contains(dbURL, "?") {
		return dbURL + "&" + param
	}
	return dbURL + "?" + param
}
