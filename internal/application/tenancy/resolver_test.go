package tenancy_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/infrastructure/memory"
)

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (*entity.TenantBinding, error) {
	return nil, errors.New("redis caído")
}
func (brokenCache) Set(context.Context, entity.TenantBinding) error {
	return errors.New("redis caído")
}
func (brokenCache) Invalidate(context.Context, string) error { return nil }

func setup(t *testing.T, cache tenancy.BindingCache) (*tenancy.Resolver, *memory.Directory, memory.Demo) {
	t.Helper()
	dir := memory.NewDirectory()
	opener := memory.NewOpener()
	demo, err := memory.SeedDemo(context.Background(), dir, opener, memory.DefaultDemoTenant())
	require.NoError(t, err)
	return tenancy.NewResolver(dir, cache, opener, nil), dir, demo
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alicereturn@example.com", tenancy.NormalizeEmail("  AliceReturn@Example.COM "))
	assert.Equal(t, "", tenancy.NormalizeEmail("   "))
}

func TestBind_EmailConocido(t *testing.T) {
	r, _, demo := setup(t, nil)

	s, err := r.Bind(context.Background(), "ALICERETURN@example.com")
	require.NoError(t, err)
	assert.Equal(t, demo.Company.ID, s.CompanyID)
	assert.Equal(t, demo.Admin.ID, s.UserID)
	assert.True(t, s.IsAdmin())
	require.NotNil(t, s.Store)

	c, err := s.Store.Companies().GetByID(context.Background(), s.CompanyID)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Example Company returns", c.Name)
}

func TestBind_EmailDesconocido(t *testing.T) {
	r, _, _ := setup(t, nil)

	_, err := r.Bind(context.Background(), "nadie@example.com")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestBind_EmailVacio(t *testing.T) {
	r, _, _ := setup(t, nil)

	_, err := r.Bind(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestBind_UsaCache(t *testing.T) {
	r, dir, _ := setup(t, memory.NewBindingCache(0))
	ctx := context.Background()

	_, err := r.Bind(ctx, "alicereturn@example.com")
	require.NoError(t, err)
	_, err = r.Bind(ctx, "alicereturn@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, dir.Lookups())
}

func TestBind_CacheCaidaConsultaDirectorio(t *testing.T) {
	r, dir, demo := setup(t, brokenCache{})

	s, err := r.Bind(context.Background(), "alicereturn@example.com")
	require.NoError(t, err)
	assert.Equal(t, demo.Company.ID, s.CompanyID)
	assert.Equal(t, 1, dir.Lookups())
}

func TestRegister_InvalidaCache(t *testing.T) {
	r, _, demo := setup(t, memory.NewBindingCache(0))
	ctx := context.Background()

	s, err := r.Bind(ctx, "bobreturns@example.com")
	require.NoError(t, err)
	assert.False(t, s.IsAdmin())

	err = r.Register(ctx, entity.TenantBinding{
		Email:     "BobReturns@example.com",
		UserID:    demo.User.ID,
		CompanyID: demo.Company.ID,
		Role:      entity.RoleAdmin,
	})
	require.NoError(t, err)

	s, err = r.Bind(ctx, "bobreturns@example.com")
	require.NoError(t, err)
	assert.True(t, s.IsAdmin())
}

func setupDos(t *testing.T, cache tenancy.BindingCache) (*tenancy.Resolver, memory.Demo, memory.Demo) {
	t.Helper()
	ctx := context.Background()
	dir := memory.NewDirectory()
	opener := memory.NewOpener()
	a, err := memory.SeedDemo(ctx, dir, opener, memory.DefaultDemoTenant())
	require.NoError(t, err)
	b, err := memory.SeedDemo(ctx, dir, opener, memory.DemoTenant{
		CompanyName: "Otra empresa",
		AdminEmail:  "ana@otra.com",
		UserEmail:   "beto@otra.com",
		DSN:         "mem://otra",
	})
	require.NoError(t, err)
	return tenancy.NewResolver(dir, cache, opener, nil), a, b
}

func TestRegister_EmailDeOtraEmpresa_NoCambiaBinding(t *testing.T) {
	r, a, b := setupDos(t, memory.NewBindingCache(0))
	ctx := context.Background()

	s, err := r.Bind(ctx, "bobreturns@example.com")
	require.NoError(t, err)
	require.Equal(t, a.Company.ID, s.CompanyID)

	err = r.Register(ctx, entity.TenantBinding{
		Email:     "bobreturns@example.com",
		UserID:    b.Admin.ID,
		CompanyID: b.Company.ID,
		Role:      entity.RoleAdmin,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.MsgEmailOtherTenant, domain.Reason(err))

	s, err = r.Bind(ctx, "bobreturns@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.Company.ID, s.CompanyID)
	assert.Equal(t, a.User.ID, s.UserID)
}

func TestRegister_ConcurrenteEnDosEmpresas_SoloUnoGana(t *testing.T) {
	r, a, b := setupDos(t, nil)
	ctx := context.Background()

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, d := range []memory.Demo{a, b} {
		wg.Add(1)
		go func(i int, d memory.Demo) {
			defer wg.Done()
			errs[i] = r.Register(ctx, entity.TenantBinding{
				Email:     "nuevo@example.com",
				UserID:    d.User.ID,
				CompanyID: d.Company.ID,
				Role:      entity.RoleUser,
			})
		}(i, d)
	}
	wg.Wait()

	conflicts := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrConflict)
			conflicts++
		}
	}
	assert.Equal(t, 1, conflicts)

	s, err := r.Bind(ctx, "nuevo@example.com")
	require.NoError(t, err)
	if errs[0] == nil {
		assert.Equal(t, a.Company.ID, s.CompanyID)
	} else {
		assert.Equal(t, b.Company.ID, s.CompanyID)
	}
}
