package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/Retail-api/internal/infrastructure/postgres"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplicar migraciones de esquema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "control",
		Short: "Migrar el plano de control (DATABASE_URL / DB_*)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := postgres.MigrateControl(cfg.DB.ConnectionString()); err != nil {
				return err
			}
			log.Info().Msg("plano de control migrado")
			return nil
		},
	})

	var dsn string
	tenant := &cobra.Command{
		Use:   "tenant",
		Short: "Migrar un almacén de tenant (por defecto el compartido)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				dsn = cfg.Tenancy.SharedDSN
			}
			if err := postgres.MigrateTenant(dsn); err != nil {
				return err
			}
			log.Info().Msg("almacén de tenant migrado")
			return nil
		},
	}
	tenant.Flags().StringVar(&dsn, "dsn", "", "DSN del almacén; vacío = TENANT_SHARED_DSN")
	cmd.AddCommand(tenant)

	return cmd
}
