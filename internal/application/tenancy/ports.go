package tenancy

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

// Directory es el plano de control: conoce a qué empresa y almacén pertenece cada email.
// No está atado a ningún tenant.
type Directory interface {
	// ResolveStore devuelve el binding del email o domain.ErrTenantNotFound si no existe.
	ResolveStore(ctx context.Context, email string) (*entity.TenantBinding, error)
	// RegisterUser crea o actualiza la entrada del email en el directorio. Un email asociado a otra
	// empresa devuelve Conflict (domain.MsgEmailOtherTenant); la comprobación y la escritura son atómicas.
	RegisterUser(ctx context.Context, binding entity.TenantBinding) error
}

// BindingCache caché opcional de bindings por email.
type BindingCache interface {
	// Get devuelve nil, nil si no hay entrada.
	Get(ctx context.Context, email string) (*entity.TenantBinding, error)
	Set(ctx context.Context, binding entity.TenantBinding) error
	Invalidate(ctx context.Context, email string) error
}

// StoreOpener entrega el contexto de datos atado a la ubicación de almacén indicada.
type StoreOpener interface {
	Open(ctx context.Context, loc entity.StoreLocation) (repository.Store, error)
}

// NopCache no guarda nada; cada petición consulta el directorio.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*entity.TenantBinding, error) { return nil, nil }
func (NopCache) Set(context.Context, entity.TenantBinding) error            { return nil }
func (NopCache) Invalidate(context.Context, string) error                   { return nil }
