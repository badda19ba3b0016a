package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/segvenc-api/internal/infrastructure/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL embebidas",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := newEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			applied, err := postgres.Migrate(ctx, e.pool)
			if err != nil {
				return err
			}
			e.log.Info().Strs("files", applied).Msg("migraciones aplicadas")
			return nil
		},
	}
}
