package database

import (
	"mfportal/src/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupGorm opens the ORM handle used by the user directory. Schema changes go
// through goose, never AutoMigrate.
func SetupGorm(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
}
