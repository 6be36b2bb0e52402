package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t,
		"pgx5://app:pw@db:5432/retail?sslmode=disable&x-migrations-table=schema_migrations_tenant",
		migrateURL("postgres://app:pw@db:5432/retail?sslmode=disable", tenantVersionTable))
	assert.Equal(t,
		"pgx5://db/control?x-migrations-table=schema_migrations_control",
		migrateURL("postgresql://db/control", controlVersionTable))
}

func TestMigrationsEmbebidas(t *testing.T) {
	for _, dir := range []string{ControlMigrations, TenantMigrations} {
		entries, err := migrationsFS.ReadDir(dir)
		assert.NoError(t, err)
		assert.NotEmpty(t, entries, dir)
	}
}
