package main

import (
	"github.com/content-calendar-api/internal/config"
	"github.com/content-calendar-api/internal/database"
	"github.com/content-calendar-api/pkg/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the SQL schema (sqlite and postgres drivers)",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *database.DB, cfg *config.Config) error {
			return db.RunMigrations(cfg.Store.MigrationsPath)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *database.DB, cfg *config.Config) error {
			return db.MigrateDown(cfg.Store.MigrationsPath)
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

func withDB(fn func(db *database.DB, cfg *config.Config) error) error {
	cfg, err := config.Read()
	if err != nil {
		return err
	}
	if err := cfg.ValidateStore(); err != nil {
		return err
	}

	log := logger.New(cfg.Log)
	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db, cfg)
}
