package main

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"acen-backend/internal/shared/config"
	"acen-backend/internal/shared/storage/db"
	"acen-backend/internal/shared/telemetry"
)

// env carries the process hooks commands use; tests replace them.
type env struct {
	loadConfig func() config.Config
	openDB     func(ctx context.Context, databaseURL string) (*sql.DB, error)
}

func defaultEnv() env {
	return env{
		loadConfig: config.Load,
		openDB: func(ctx context.Context, databaseURL string) (*sql.DB, error) {
			return db.Connect(ctx, databaseURL, db.OptionsFromEnv(db.DefaultCLIOptions()))
		},
	}
}

func newRootCmd(e env) *cobra.Command {
	root := &cobra.Command{
		Use:          "acenctl",
		Short:        "Operate the evaluation and feedback service",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			telemetry.Init(e.loadConfig().LogLevel)
		},
	}
	root.AddCommand(
		newMigrateCmd(e),
		newSeedCmd(e),
		newAPIKeyCmd(e),
		newTokenCmd(e),
	)
	return root
}

// withDB opens the configured database for the duration of fn.
func (e env) withDB(ctx context.Context, fn func(*sql.DB) error) error {
	cfg := e.loadConfig()
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return errors.New("DATABASE_URL is required")
	}
	sqlDB, err := e.openDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return fn(sqlDB)
}
