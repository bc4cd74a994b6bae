package db

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"recipebox/internal/model"
)

// Open returns a connected GORM DB instance for the named driver ("mysql" or "postgres").
// Driver errors are translated so unique violations surface as gorm.ErrDuplicatedKey.
func Open(driver, dsn string, logger *slog.Logger, debug bool) (*gorm.DB, error) {
	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormSlogLogger(logger, debug),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Recipe{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops all tables, recipes first so the author foreign key never dangles.
func Reset(db *gorm.DB, logger *slog.Logger) {
	for _, table := range []interface{}{&model.Recipe{}, &model.User{}} {
		if err := db.Migrator().DropTable(table); err != nil {
			logger.Warn("failed to drop table (may not exist)", slog.String("error", err.Error()))
		}
	}
}
