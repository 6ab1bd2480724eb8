package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellosocial/internal/social/store"
	migrations "github.com/dropDatabas3/hellosocial/migrations/postgres"
)

func newMigrateCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones de postgres (store.postgres.dsn)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Store.Postgres.DSN == "" {
				return fmt.Errorf("store.postgres.dsn es requerido")
			}

			pool, err := pgxpool.New(cmd.Context(), cfg.Store.Postgres.DSN)
			if err != nil {
				return fmt.Errorf("pgxpool: %w", err)
			}
			defer pool.Close()

			res, err := store.NewMigrator(migrations.FS, migrations.Dir).Run(cmd.Context(), pool)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied=%v skipped=%v in %s\n", res.Applied, res.Skipped, res.Duration)
			return nil
		},
	}
}
