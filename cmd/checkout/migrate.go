package main

import (
	"errors"

	"github.com/DanielPopoola/mpesa-checkout/internal/config"
	"github.com/DanielPopoola/mpesa-checkout/internal/infrastructure/persistence/postgres"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the attempt journal schema",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "db/migrations", "directory holding the SQL migrations")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDatabaseConfig()
			if err != nil {
				return err
			}
			return postgres.MigrateUp(cfg.Database, dir, cfg.Logger.NewLogger())
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDatabaseConfig()
			if err != nil {
				return err
			}
			return postgres.MigrateDown(cfg.Database, dir, steps, cfg.Logger.NewLogger())
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}

func loadDatabaseConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Database == nil {
		return nil, errors.New("no database configured (set CHECKOUT_DATABASE__* variables)")
	}
	return cfg, nil
}
