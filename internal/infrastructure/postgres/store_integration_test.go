//go:build integration

package postgres_test

// Ejecutar con: go test -tags integration ./internal/infrastructure/postgres/... -v

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
	"github.com/jhoicas/Retail-api/internal/infrastructure/postgres"
)

type pgEnv struct {
	dir        *postgres.Directory
	resolver   *tenancy.Resolver
	registry   *postgres.StoreRegistry
	tenant2DSN string
}

func setupPostgres(t *testing.T) *pgEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("retail_control"),
		tcPostgres.WithUsername("retail"),
		tcPostgres.WithPassword("retail"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	controlDSN, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Base de datos propia para el segundo tenant.
	conn, err := pgx.Connect(ctx, controlDSN)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `CREATE DATABASE retail_tenant2`)
	require.NoError(t, err)
	require.NoError(t, conn.Close(ctx))
	tenant2DSN := strings.Replace(controlDSN, "/retail_control", "/retail_tenant2", 1)

	require.NoError(t, postgres.MigrateControl(controlDSN))
	controlPool, err := postgres.NewPool(ctx, controlDSN, postgres.ControlPoolOptions)
	require.NoError(t, err)
	t.Cleanup(controlPool.Close)

	dir := postgres.NewDirectory(controlPool)
	registry := postgres.NewStoreRegistry(controlDSN, true, nil)
	t.Cleanup(registry.Close)

	require.NoError(t, postgres.ProvisionTenant(ctx, dir, registry, entity.Company{ID: 1, Name: "Example Company returns"}, ""))
	require.NoError(t, postgres.ProvisionTenant(ctx, dir, registry, entity.Company{ID: 2, Name: "Otra empresa"}, tenant2DSN))

	env := &pgEnv{dir: dir, resolver: tenancy.NewResolver(dir, nil, registry, nil), registry: registry, tenant2DSN: tenant2DSN}
	env.seedTenant(t, 1, "alice@example.com", "Location 1")
	env.seedTenant(t, 2, "ana@otra.com", "Bodega Norte")
	return env
}

// seedTenant crea un admin y una referencia, ubicación, instancia y tipo de movimiento para la empresa.
func (e *pgEnv) seedTenant(t *testing.T, companyID int64, email, location string) {
	t.Helper()
	ctx := context.Background()
	dsn := ""
	if companyID == 2 {
		dsn = e.tenant2DSN
	}
	store, err := e.registry.Open(ctx, entity.StoreLocation{CompanyID: companyID, DSN: dsn})
	require.NoError(t, err)

	u := &entity.User{CompanyID: companyID, Name: "Admin", Email: email, Role: entity.RoleAdmin}
	require.NoError(t, store.Users().Create(ctx, u))
	require.NoError(t, e.resolver.Register(ctx, entity.TenantBinding{Email: email, UserID: u.ID, CompanyID: companyID, Role: entity.RoleAdmin}))

	loc := &entity.Location{CompanyID: companyID, Name: location}
	require.NoError(t, store.Locations().Create(ctx, loc))
	sku := &entity.ProductSku{CompanyID: companyID, Name: "Product AAA", Barcode: "123456789", Price: decimal.NewFromInt(10)}
	require.NoError(t, store.ProductSkus().Create(ctx, sku))
	pi := &entity.ProductInstance{ProductSkuID: sku.ID, LocationID: &loc.ID, Serial: "S-" + location, EPC: "EPC-" + location}
	require.NoError(t, store.ProductInstances().Create(ctx, pi))
	tm := &entity.TypeMovement{CompanyID: companyID, Name: entity.TypeMovementReturns, Initials: entity.TypeMovementReturnsInitials}
	require.NoError(t, store.TypeMovements().Create(ctx, tm))
}

func TestPostgres_ResolverYAislamiento(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()

	s1, err := env.resolver.Bind(ctx, "ALICE@example.com")
	require.NoError(t, err)
	s2, err := env.resolver.Bind(ctx, "ana@otra.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), s1.CompanyID)
	assert.Equal(t, int64(2), s2.CompanyID)

	_, err = env.resolver.Bind(ctx, "nadie@example.com")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)

	locs1, err := s1.Store.Locations().ListByCompany(ctx, s1.CompanyID)
	require.NoError(t, err)
	require.Len(t, locs1, 1)
	assert.Equal(t, "Location 1", locs1[0].Name)

	locs2, err := s2.Store.Locations().ListByCompany(ctx, s2.CompanyID)
	require.NoError(t, err)
	require.Len(t, locs2, 1)
	assert.Equal(t, "Bodega Norte", locs2[0].Name)

	// El mismo código de barras en otra empresa no es conflicto.
	skus2, err := s2.Store.ProductSkus().ListByCompany(ctx, s2.CompanyID)
	require.NoError(t, err)
	require.Len(t, skus2, 1)
	assert.Equal(t, "123456789", skus2[0].Barcode)
	assert.True(t, decimal.NewFromInt(10).Equal(skus2[0].Price))
}

func TestPostgres_UnicidadComoConflicto(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	s1, err := env.resolver.Bind(ctx, "alice@example.com")
	require.NoError(t, err)

	err = s1.Store.ProductSkus().Create(ctx, &entity.ProductSku{CompanyID: 1, Name: "Otro", Barcode: "123456789"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.MsgBarcodeTaken, domain.Reason(err))

	err = s1.Store.ProductSkus().Create(ctx, &entity.ProductSku{CompanyID: 1, Name: "Product AAA"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.MsgSkuNameSupplier, domain.Reason(err))
}

func TestPostgres_DirectorioNoReasignaEmailNiAlmacen(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()

	err := env.dir.RegisterUser(ctx, entity.TenantBinding{Email: "alice@example.com", UserID: 99, CompanyID: 2, Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.MsgEmailOtherTenant, domain.Reason(err))

	b, err := env.dir.ResolveStore(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.CompanyID)

	// Misma empresa: se actualiza el rol.
	require.NoError(t, env.dir.RegisterUser(ctx, entity.TenantBinding{Email: "alice@example.com", UserID: b.UserID, CompanyID: 1, Role: entity.RoleUser}))
	b, err = env.dir.ResolveStore(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, b.Role)

	require.NoError(t, env.dir.RegisterTenant(ctx, 2, "Otra empresa S.A.", env.tenant2DSN))
	err = env.dir.RegisterTenant(ctx, 2, "Otra empresa", "")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.MsgTenantStoreTaken, domain.Reason(err))

	b, err = env.dir.ResolveStore(ctx, "ana@otra.com")
	require.NoError(t, err)
	assert.Equal(t, env.tenant2DSN, b.Store.DSN)
}

func TestPostgres_RunInTxRollback(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	s1, err := env.resolver.Bind(ctx, "alice@example.com")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s1.Store.RunInTx(ctx, func(tx repository.Store) error {
		if err := tx.Locations().Create(ctx, &entity.Location{CompanyID: 1, Name: "Temporal"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	locs, err := s1.Store.Locations().ListByCompany(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, locs, 1)

	inProcess, err := s1.Store.Statuses().GetByName(ctx, entity.StatusInProcess)
	require.NoError(t, err)
	require.NotNil(t, inProcess)
}
