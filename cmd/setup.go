package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/babytube/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the config file when missing, runs migrations and seeds an empty store.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
	}

	if _, err := r.loadConfig(ctx, cmd); err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		r.config = shared.DefaultConfig()
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	svc, err := r.openCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	total, err := svc.Count(ctx)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("✓ Database ready at %s (%d entries)\n", r.config.Database.Path, total)
	return r.writePlainln("Next: run 'babytube serve' for the API or 'babytube tui' to play")
}

// SetupRollback reverts the most recently applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	r.logger.Info("rolled back migration", "path", r.config.Database.Path)
	r.writePlain("✓ Rolled back the latest migration\n")
	return nil
}
