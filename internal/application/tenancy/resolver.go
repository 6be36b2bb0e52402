package tenancy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/pkg/logger"
)

// NormalizeEmail clave canónica de un email para el directorio (trim + case folding Unicode).
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// Resolver traduce la identidad de quien llama al almacén de su empresa.
type Resolver struct {
	dir    Directory
	cache  BindingCache
	opener StoreOpener
	log    *logger.Logger
}

// NewResolver construye el resolver. cache puede ser nil (equivale a NopCache).
func NewResolver(dir Directory, cache BindingCache, opener StoreOpener, log *logger.Logger) *Resolver {
	if cache == nil {
		cache = NopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{dir: dir, cache: cache, opener: opener, log: log}
}

// Bind resuelve el email y devuelve la sesión atada al almacén de su empresa.
// Un fallo de la caché degrada a una consulta al directorio; nunca a otro tenant.
func (r *Resolver) Bind(ctx context.Context, email string) (*Session, error) {
	key := NormalizeEmail(email)
	if key == "" {
		return nil, domain.ErrUnauthorized
	}

	binding, err := r.cache.Get(ctx, key)
	if err != nil {
		r.log.Warn().Err(err).Str("email", key).Msg("caché de tenants no disponible")
		binding = nil
	}
	if binding == nil {
		binding, err = r.dir.ResolveStore(ctx, key)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Set(ctx, *binding); err != nil {
			r.log.Warn().Err(err).Str("email", key).Msg("no se pudo guardar el binding en caché")
		}
	}

	store, err := r.opener.Open(ctx, binding.Store)
	if err != nil {
		return nil, fmt.Errorf("abrir almacén de la empresa %d: %w", binding.CompanyID, err)
	}
	return &Session{
		Email:     key,
		UserID:    binding.UserID,
		CompanyID: binding.CompanyID,
		Role:      binding.Role,
		Store:     store,
	}, nil
}

// Register publica un usuario en el directorio e invalida cualquier binding previo en caché.
// Un email ya asociado a otra empresa es un conflicto: el directorio resuelve cada email a una sola empresa.
func (r *Resolver) Register(ctx context.Context, binding entity.TenantBinding) error {
	binding.Email = NormalizeEmail(binding.Email)
	if err := r.dir.RegisterUser(ctx, binding); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return err
		}
		return fmt.Errorf("registrar usuario en el directorio: %w", err)
	}
	return r.Invalidate(ctx, binding.Email)
}

// Invalidate descarta el binding en caché del email (ej. el usuario cambió de empresa).
func (r *Resolver) Invalidate(ctx context.Context, email string) error {
	if err := r.cache.Invalidate(ctx, NormalizeEmail(email)); err != nil {
		return fmt.Errorf("invalidar binding: %w", err)
	}
	return nil
}
