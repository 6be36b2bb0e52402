package postgres

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/control/*.sql migrations/tenant/*.sql
var migrationsFS embed.FS

// Conjuntos de migraciones embebidos. Cada uno lleva su propia tabla de versiones para que el plano
// de control y el almacén compartido puedan vivir en la misma base de datos.
const (
	ControlMigrations = "migrations/control"
	TenantMigrations  = "migrations/tenant"

	controlVersionTable = "schema_migrations_control"
	tenantVersionTable  = "schema_migrations_tenant"
)

// MigrateControl aplica las migraciones del plano de control.
func MigrateControl(dsn string) error {
	return migrateUp(ControlMigrations, migrateURL(dsn, controlVersionTable))
}

// MigrateTenant aplica las migraciones de un almacén de tenant.
func MigrateTenant(dsn string) error {
	return migrateUp(TenantMigrations, migrateURL(dsn, tenantVersionTable))
}

func migrateUp(dir, dsn string) error {
	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("abrir migraciones %s: %w", dir, err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("iniciar migrate: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("aplicar migraciones %s: %w", dir, err)
	}
	return nil
}

// migrateURL adapta un DSN postgres:// al esquema del driver pgx/v5 de golang-migrate.
func migrateURL(dsn, versionTable string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			dsn = "pgx5://" + strings.TrimPrefix(dsn, prefix)
			break
		}
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "x-migrations-table=" + versionTable
}
