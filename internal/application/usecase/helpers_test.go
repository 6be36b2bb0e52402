package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/infrastructure/memory"
)

type fixture struct {
	resolver *tenancy.Resolver
	opener   *memory.Opener
	demo     memory.Demo
	other    memory.Demo
}

// newFixture carga dos empresas: la de devoluciones en el almacén compartido y otra en un almacén propio.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := memory.NewDirectory()
	opener := memory.NewOpener()
	demo, err := memory.SeedDemo(ctx, dir, opener, memory.DefaultDemoTenant())
	require.NoError(t, err)
	other, err := memory.SeedDemo(ctx, dir, opener, memory.DemoTenant{
		CompanyName: "Otra empresa",
		AdminEmail:  "ana@otra.com",
		UserEmail:   "beto@otra.com",
		DSN:         "mem://otra",
	})
	require.NoError(t, err)
	return &fixture{
		resolver: tenancy.NewResolver(dir, nil, opener, nil),
		opener:   opener,
		demo:     demo,
		other:    other,
	}
}

func (f *fixture) bind(t *testing.T, email string) *tenancy.Session {
	t.Helper()
	s, err := f.resolver.Bind(context.Background(), email)
	require.NoError(t, err)
	return s
}
