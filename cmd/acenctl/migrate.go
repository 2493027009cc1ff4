package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"acen-backend/internal/shared/storage/db"
)

func newMigrateCmd(e env) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withDB(cmd.Context(), func(sqlDB *sql.DB) error {
				if err := db.RunMigrations(cmd.Context(), sqlDB); err != nil {
					return fmt.Errorf("run migrations: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
	migrate.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the applied state of every migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withDB(cmd.Context(), func(sqlDB *sql.DB) error {
				return db.MigrationStatus(cmd.Context(), sqlDB)
			})
		},
	})
	return migrate
}
