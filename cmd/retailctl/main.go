// retailctl tareas de operación: migraciones, alta de empresas y tokens de desarrollo.
//
// Uso:
//
//	retailctl migrate control
//	retailctl migrate tenant --dsn postgres://...
//	retailctl tenant create --id 2 --name "Acme" [--dsn postgres://...] --admin-email admin@acme.com
//	retailctl token --email aliceReturn@example.com
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Retail-api/pkg/config"
	"github.com/jhoicas/Retail-api/pkg/logger"
)

var (
	cfg *config.Config
	log *logger.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "retailctl",
		Short:         "Herramientas de operación del backend de devoluciones",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			cfg = c
			log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
			return nil
		},
	}
	root.AddCommand(migrateCmd(), tenantCmd(), tokenCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
