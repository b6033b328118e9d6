package cmd

import (
	"context"
	"fmt"

	"wheelhouse/config"
	"wheelhouse/database"
	"wheelhouse/events"
	"wheelhouse/repository"
	"wheelhouse/repository/memory"
	"wheelhouse/service"

	log "github.com/sirupsen/logrus"
)

// openStorage builds the unit of work factory for the configured backend.
// The returned close func releases any connection it opened.
func openStorage(ctx context.Context, cfg *config.Config, eventBus *events.Bus) (service.UnitOfWorkFactory, func(), error) {
	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn("Using in-memory storage; balances are lost on restart")
		return memory.NewUnitOfWorkFactory(memory.NewStore(eventBus)), func() {}, nil

	case config.StoragePostgres:
		databaseURL := cfg.GetDatabaseURL()
		if err := database.RunMigrationsWithURL(databaseURL); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		log.Info("Connecting to database...")
		db, err := database.NewConnection(ctx, databaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Database connection established successfully")
		return repository.NewUnitOfWorkFactory(db, eventBus), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
