package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestMigrationsURL(t *testing.T) {
	assert.Equal(t, "", MigrationsURL(""))
	assert.Equal(t,
		"postgres://u:p@localhost/db?x-migrations-table=go_schema_migrations",
		MigrationsURL("postgres://u:p@localhost/db"))
	assert.Equal(t,
		"postgres://u:p@localhost/db?sslmode=disable&x-migrations-table=go_schema_migrations",
		MigrationsURL("postgres://u:p@localhost/db?sslmode=disable"))
}

func TestLogMode(t *testing.T) {
	assert.Equal(t, logger.Silent, logMode(""))
	assert.Equal(t, logger.Info, logMode("DEBUG"))
	assert.Equal(t, logger.Warn, logMode("warn"))
	assert.Equal(t, logger.Error, logMode("error"))
}

func TestConnect_RequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Connect(Config{})
	assert.ErrorIs(t, err, ErrNoDatabaseURL)
}
