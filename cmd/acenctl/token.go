package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"acen-backend/internal/shared/auth"
)

func newTokenCmd(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Bearer token utilities",
	}

	var (
		name string
		ttl  time.Duration
	)
	issue := &cobra.Command{
		Use:   "issue <user-id>",
		Short: "Sign a bearer token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := auth.NewSigner(e.loadConfig().JWTSecret, ttl)
			if err != nil {
				return err
			}
			token, err := signer.Sign(args[0], name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issue.Flags().StringVar(&name, "name", "", "display name embedded in the token")
	issue.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	cmd.AddCommand(issue)
	return cmd
}
