package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/segvenc-api/internal/application/usecase"
	"github.com/jhoicas/segvenc-api/internal/infrastructure/catalogfile"
	"github.com/jhoicas/segvenc-api/internal/infrastructure/postgres"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Administra el catálogo de exámenes y cursos",
	}
	cmd.AddCommand(catalogSeedCmd())
	return cmd
}

func catalogSeedCmd() *cobra.Command {
	var companyID, file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Carga en una empresa las entradas del catálogo que aún no existan",
		Example: `  worker catalog seed --company 6f1c... --file configs/catalog.example.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			items, err := catalogfile.Load(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := newEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			company, err := postgres.NewCompanyRepository(e.pool).GetByID(ctx, companyID)
			if err != nil {
				return err
			}
			if company == nil {
				return fmt.Errorf("empresa %s no encontrada", companyID)
			}

			uc := usecase.NewCertificationUseCase(postgres.NewCertificationRepository(e.pool))
			created, err := uc.Seed(ctx, companyID, items)
			if err != nil {
				return err
			}
			e.log.Info().
				Str("company_id", companyID).
				Int("created", created).
				Int("skipped", len(items)-created).
				Msg("catálogo cargado")
			return nil
		},
	}
	cmd.Flags().StringVar(&companyID, "company", "", "ID de la empresa")
	cmd.Flags().StringVar(&file, "file", "configs/catalog.example.yaml", "archivo YAML del catálogo")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
