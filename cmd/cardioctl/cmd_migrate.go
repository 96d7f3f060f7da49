package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibbank/cardiorisk/internal/infrastructure/postgres"
	pkgpostgres "github.com/bibbank/cardiorisk/pkg/postgres"
)

func newMigrateCmd(a *app) *cobra.Command {
	var (
		down  bool
		steps int
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dsn := a.cfg.DB.DSN()
			if !down {
				if err := pkgpostgres.RunEmbeddedMigrations(dsn, postgres.Migrations, postgres.MigrationsPath); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%s\n", "migrations applied")
				return nil
			}

			if steps < 0 {
				return fmt.Errorf("--steps must not be negative")
			}
			if err := pkgpostgres.RollbackEmbeddedMigrations(dsn, postgres.Migrations, postgres.MigrationsPath, steps); err != nil {
				return err
			}
			if steps == 0 {
				printf(cmd.OutOrStdout(), "%s\n", "all migrations rolled back")
			} else {
				printf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back instead of applying")
	cmd.Flags().IntVar(&steps, "steps", 1, "migrations to roll back with --down; 0 rolls back everything")
	return cmd
}
