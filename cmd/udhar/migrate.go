package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"udhar-ledger/internal/infrastructure/db"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, log, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			defer func() { _ = a.Close() }()

			applied, err := a.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintf(out, "schema is up to date (version %d)\n", db.LatestVersion())
				return nil
			}
			fmt.Fprintf(out, "applied migrations %v, schema at version %d\n", applied, db.LatestVersion())
			return nil
		},
	}
}

func newAdminCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator account tasks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "bootstrap",
		Short: "Create the default administrator when none exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, log, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			defer func() { _ = a.Close() }()

			if _, err := a.Migrate(cmd.Context()); err != nil {
				return err
			}
			created, err := a.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if created == nil {
				fmt.Fprintln(out, "an administrator already exists")
				return nil
			}
			fmt.Fprintf(out, "created administrator %s (phone %s); change the default password\n", created.UserID, created.Phone)
			return nil
		},
	})
	return cmd
}
