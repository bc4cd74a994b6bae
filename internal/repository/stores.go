package repository

import (
	"fmt"
	"log/slog"

	"recipebox/internal/config"
	"recipebox/internal/db"
)

// Stores groups the repositories the services depend on.
type Stores struct {
	Users   UserRepository
	Recipes RecipeRepository
	close   func() error
}

// Close releases the underlying connection pool, if any.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStores connects to the configured database, applying reset and migrations,
// or returns an in-memory store when the driver is "memory".
func OpenStores(cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	if cfg.DBDriver == "memory" {
		logger.Warn("using in-memory store, data is lost on exit")
		mem := NewMemoryStore()
		return &Stores{Users: mem.Users(), Recipes: mem.Recipes()}, nil
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, logger, cfg.LogLevel == "debug")
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}

	if cfg.ResetDB {
		logger.Warn("reset_db enabled, dropping all tables")
		db.Reset(gormDB, logger)
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}

	return &Stores{
		Users:   NewUserRepository(gormDB),
		Recipes: NewRecipeRepository(gormDB),
		close:   sqlDB.Close,
	}, nil
}
