package main

import (
	"database/sql"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"acen-backend/internal/apikeys"
)

func newAPIKeyCmd(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys guarding mutating routes",
	}

	var description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Issue a new API key and print it once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withDB(cmd.Context(), func(sqlDB *sql.DB) error {
				svc := apikeys.NewService(&apikeys.PGRepo{DB: sqlDB})
				key, err := svc.Create(cmd.Context(), description)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "id=%d key=%s\n", key.ID, key.Key)
				return nil
			})
		},
	}
	create.Flags().StringVarP(&description, "description", "d", "", "free-form note stored with the key")

	list := &cobra.Command{
		Use:   "list",
		Short: "List API keys with masked values",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withDB(cmd.Context(), func(sqlDB *sql.DB) error {
				keys, err := apikeys.NewService(&apikeys.PGRepo{DB: sqlDB}).List(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tKEY\tSTATUS\tDESCRIPTION")
				for _, k := range keys {
					status := "active"
					if !k.Active() {
						status = "revoked"
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", k.ID, apikeys.Mask(k.Key), status, k.Description)
				}
				return w.Flush()
			})
		},
	}

	revoke := &cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid key id %q", args[0])
			}
			return e.withDB(cmd.Context(), func(sqlDB *sql.DB) error {
				if err := apikeys.NewService(&apikeys.PGRepo{DB: sqlDB}).Revoke(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "revoked %d\n", id)
				return nil
			})
		},
	}

	cmd.AddCommand(create, list, revoke)
	return cmd
}
