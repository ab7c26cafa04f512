package main

import (
	"context"
	"fmt"

	"github.com/content-calendar-api/internal/config"
	"github.com/content-calendar-api/internal/database"
	"github.com/content-calendar-api/internal/repository"
	"github.com/content-calendar-api/internal/repository/document"
	"github.com/rs/zerolog"
)

// store is the repository set chosen by STORE_DRIVER plus what the
// server needs to manage it
type store struct {
	Repos       *repository.Repositories
	HealthCheck func(ctx context.Context) error
	Close       func() error
}

func openStore(cfg *config.Config, log zerolog.Logger) (*store, error) {
	if cfg.Store.Driver == config.DriverFile {
		doc, err := document.New(cfg.Store.DataFile, log)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.Store.DataFile).Msg("Using document store")
		return &store{
			Repos: doc.Repositories(),
			Close: func() error { return nil },
		}, nil
	}

	db, err := openDB(cfg, log)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(cfg.Store.MigrationsPath); err != nil {
		db.Close()
		return nil, err
	}

	return &store{
		Repos:       repository.New(db),
		HealthCheck: db.HealthCheck,
		Close:       db.Close,
	}, nil
}

// openDB connects to the SQL database for the sqlite and postgres drivers
func openDB(cfg *config.Config, log zerolog.Logger) (*database.DB, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		return database.NewSQLite(cfg.Store.SQLitePath, log)
	case config.DriverPostgres:
		return database.New(&cfg.Database, log)
	default:
		return nil, fmt.Errorf("store driver %q has no database", cfg.Store.Driver)
	}
}
