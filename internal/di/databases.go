package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/stockwise/internal/config"
	"github.com/aristath/stockwise/internal/database"
)

// InitializeDatabases opens both databases and applies their schemas
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// 1. portfolio.db - stored holdings
	portfolioDB, err := openDatabase(cfg.Path("portfolio.db"), database.ProfileStandard, database.NamePortfolio)
	if err != nil {
		return nil, err
	}
	container.PortfolioDB = portfolioDB

	// 2. cache.db - last-known-good quotes, safe to delete
	cacheDB, err := openDatabase(cfg.Path("cache.db"), database.ProfileCache, database.NameCache)
	if err != nil {
		portfolioDB.Close()
		return nil, err
	}
	container.CacheDB = cacheDB

	log.Info().Str("data_dir", cfg.DataDir).Msg("Databases initialized")
	return container, nil
}

func openDatabase(path string, profile database.DatabaseProfile, name string) (*database.DB, error) {
	db, err := database.New(database.Config{
		Path:    path,
		Profile: profile,
		Name:    name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database: %w", name, err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate %s database: %w", name, err)
	}
	return db, nil
}
