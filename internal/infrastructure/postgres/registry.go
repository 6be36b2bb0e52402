package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
	"github.com/jhoicas/Retail-api/pkg/logger"
)

var _ tenancy.StoreOpener = (*StoreRegistry)(nil)

// StoreRegistry mantiene un pool por DSN de almacén y los abre bajo demanda.
// Las empresas sin DSN propio usan sharedDSN.
type StoreRegistry struct {
	sharedDSN   string
	autoMigrate bool
	log         *logger.Logger

	mu    sync.Mutex
	pools map[string]*pgxpool.Pool
}

// NewStoreRegistry construye el registro. Con autoMigrate cada almacén se migra la primera vez que se abre.
func NewStoreRegistry(sharedDSN string, autoMigrate bool, log *logger.Logger) *StoreRegistry {
	if log == nil {
		log = logger.Nop()
	}
	return &StoreRegistry{
		sharedDSN:   sharedDSN,
		autoMigrate: autoMigrate,
		log:         log,
		pools:       map[string]*pgxpool.Pool{},
	}
}

// Open implementa tenancy.StoreOpener.
func (r *StoreRegistry) Open(ctx context.Context, loc entity.StoreLocation) (repository.Store, error) {
	dsn := loc.DSN
	if dsn == "" {
		dsn = r.sharedDSN
	}
	if dsn == "" {
		return nil, fmt.Errorf("la empresa %d no tiene almacén configurado", loc.CompanyID)
	}
	pool, err := r.pool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return NewStore(pool), nil
}

func (r *StoreRegistry) pool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pools[dsn]; ok {
		return p, nil
	}
	if r.autoMigrate {
		if err := MigrateTenant(dsn); err != nil {
			return nil, err
		}
	}
	p, err := NewPool(ctx, dsn, TenantPoolOptions)
	if err != nil {
		return nil, err
	}
	r.pools[dsn] = p
	r.log.Info().Int("stores", len(r.pools)).Msg("almacén de tenant abierto")
	return p, nil
}

// Close cierra todos los pools abiertos.
func (r *StoreRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for dsn, p := range r.pools {
		p.Close()
		delete(r.pools, dsn)
	}
}
