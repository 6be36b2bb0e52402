package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

var (
	_ tenancy.Directory    = (*Directory)(nil)
	_ tenancy.BindingCache = (*BindingCache)(nil)
	_ tenancy.StoreOpener  = (*Opener)(nil)
)

// Directory plano de control en memoria: empresa -> almacén y email -> binding.
type Directory struct {
	mu      sync.RWMutex
	tenants map[int64]entity.StoreLocation
	entries map[string]entity.TenantBinding
	lookups int
}

// NewDirectory crea un directorio vacío.
func NewDirectory() *Directory {
	return &Directory{
		tenants: map[int64]entity.StoreLocation{},
		entries: map[string]entity.TenantBinding{},
	}
}

// RegisterTenant publica la ubicación del almacén de una empresa. dsn vacío = almacén compartido.
// Una empresa ya registrada no cambia de almacén.
func (d *Directory) RegisterTenant(companyID int64, dsn string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cur, ok := d.tenants[companyID]; ok && cur.DSN != dsn {
		return domain.NewConflict(domain.MsgTenantStoreTaken)
	}
	d.tenants[companyID] = entity.StoreLocation{CompanyID: companyID, DSN: dsn}
	return nil
}

// ResolveStore implementa tenancy.Directory.
func (d *Directory) ResolveStore(ctx context.Context, email string) (*entity.TenantBinding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups++
	b, ok := d.entries[tenancy.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	b.Store = d.tenants[b.CompanyID]
	return &b, nil
}

// RegisterUser implementa tenancy.Directory. La empresa debe estar registrada.
func (d *Directory) RegisterUser(ctx context.Context, b entity.TenantBinding) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.Email = tenancy.NormalizeEmail(b.Email)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.tenants[b.CompanyID]; !ok {
		return domain.ErrTenantNotFound
	}
	if cur, ok := d.entries[b.Email]; ok && cur.CompanyID != b.CompanyID {
		return domain.NewConflict(domain.MsgEmailOtherTenant)
	}
	b.Store = entity.StoreLocation{}
	d.entries[b.Email] = b
	return nil
}

// Lookups número de consultas atendidas por el directorio.
func (d *Directory) Lookups() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lookups
}

// BindingCache caché de bindings en memoria con expiración.
type BindingCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cachedBinding
}

type cachedBinding struct {
	binding entity.TenantBinding
	expires time.Time
}

// NewBindingCache crea la caché; ttl <= 0 significa sin expiración.
func NewBindingCache(ttl time.Duration) *BindingCache {
	return &BindingCache{ttl: ttl, now: time.Now, entries: map[string]cachedBinding{}}
}

func (c *BindingCache) Get(_ context.Context, email string) (*entity.TenantBinding, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[email]
	if !ok {
		return nil, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.entries, email)
		return nil, nil
	}
	b := e.binding
	return &b, nil
}

func (c *BindingCache) Set(_ context.Context, b entity.TenantBinding) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var exp time.Time
	if c.ttl > 0 {
		exp = c.now().Add(c.ttl)
	}
	c.entries[b.Email] = cachedBinding{binding: b, expires: exp}
	return nil
}

func (c *BindingCache) Invalidate(_ context.Context, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, email)
	return nil
}

// Opener entrega un Database por DSN. Las empresas sin DSN comparten el almacén por defecto.
type Opener struct {
	mu       sync.Mutex
	seq      *sequence
	isolated bool
	shared   *Database
	dbs      map[string]*Database
}

// NewOpener crea un opener con un almacén compartido vacío. Todos sus almacenes comparten la
// secuencia de ids.
func NewOpener() *Opener {
	seq := &sequence{}
	return &Opener{seq: seq, shared: newDatabase(seq), dbs: map[string]*Database{}}
}

// NewIsolatedOpener como NewOpener, pero cada almacén abierto por DSN numera sus filas por su
// cuenta, igual que bases separadas: los ids se repiten entre empresas.
func NewIsolatedOpener() *Opener {
	o := NewOpener()
	o.isolated = true
	return o
}

// Database devuelve (creándolo si hace falta) el almacén de la ubicación indicada.
func (o *Opener) Database(loc entity.StoreLocation) *Database {
	if loc.DSN == "" {
		return o.shared
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	db, ok := o.dbs[loc.DSN]
	if !ok {
		seq := o.seq
		if o.isolated {
			seq = &sequence{}
		}
		db = newDatabase(seq)
		o.dbs[loc.DSN] = db
	}
	return db
}

// Open implementa tenancy.StoreOpener.
func (o *Opener) Open(ctx context.Context, loc entity.StoreLocation) (repository.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return o.Database(loc).Store(), nil
}
