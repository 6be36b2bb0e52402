// Package memory implementa el directorio de tenants y los almacenes de datos en memoria.
// Se usa con TENANCY_DRIVER=memory para desarrollo local y como fixture en los tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

var _ repository.Store = (*Store)(nil)

// sequence generador de ids; los almacenes de un mismo Opener lo comparten, así los ids no se
// repiten entre empresas. Como en una secuencia SQL, un rollback no devuelve ids.
type sequence struct {
	mu   sync.Mutex
	last int64
}

func (s *sequence) assign(id int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == 0 {
		s.last++
		return s.last
	}
	if id > s.last {
		s.last = id
	}
	return id
}

type tables struct {
	seq           *sequence
	companies     map[int64]entity.Company
	users         map[int64]entity.User
	userLocations map[int64][]int64
	locations     map[int64]entity.Location
	skus          map[int64]entity.ProductSku
	instances     map[int64]entity.ProductInstance
	statuses      map[int64]entity.Status
	typeMovements map[int64]entity.TypeMovement
	orders        map[int64]entity.Order
	movements     map[int64]entity.ProductMovement
}

func newTables(seq *sequence) *tables {
	return &tables{
		seq:           seq,
		companies:     map[int64]entity.Company{},
		users:         map[int64]entity.User{},
		userLocations: map[int64][]int64{},
		locations:     map[int64]entity.Location{},
		skus:          map[int64]entity.ProductSku{},
		instances:     map[int64]entity.ProductInstance{},
		statuses:      map[int64]entity.Status{},
		typeMovements: map[int64]entity.TypeMovement{},
		orders:        map[int64]entity.Order{},
		movements:     map[int64]entity.ProductMovement{},
	}
}

func (t *tables) clone() *tables {
	c := &tables{
		seq:           t.seq,
		companies:     maps.Clone(t.companies),
		users:         maps.Clone(t.users),
		userLocations: make(map[int64][]int64, len(t.userLocations)),
		locations:     maps.Clone(t.locations),
		skus:          maps.Clone(t.skus),
		instances:     maps.Clone(t.instances),
		statuses:      maps.Clone(t.statuses),
		typeMovements: maps.Clone(t.typeMovements),
		orders:        maps.Clone(t.orders),
		movements:     maps.Clone(t.movements),
	}
	for k, v := range t.userLocations {
		c.userLocations[k] = slices.Clone(v)
	}
	return c
}

// assign devuelve id si es explícito (y avanza la secuencia) o el siguiente id libre.
func (t *tables) assign(id int64) int64 {
	return t.seq.assign(id)
}

// Database almacén en memoria de uno o varios tenants.
// Toda escritura, dentro o fuera de RunInTx, toma txMu: una transacción abierta publica su copia
// sin pisar escrituras ya confirmadas.
type Database struct {
	mu   sync.Mutex // protege data
	txMu sync.Mutex // serializa transacciones y escrituras sueltas
	data *tables
}

// lock toma txMu y mu, en ese orden.
func (db *Database) lock() func() {
	db.txMu.Lock()
	db.mu.Lock()
	return func() {
		db.mu.Unlock()
		db.txMu.Unlock()
	}
}

// NewDatabase crea un almacén vacío con su propia secuencia de ids.
func NewDatabase() *Database {
	return newDatabase(&sequence{})
}

func newDatabase(seq *sequence) *Database {
	return &Database{data: newTables(seq)}
}

// Store devuelve el contexto de datos sobre este almacén.
func (db *Database) Store() *Store {
	return &Store{db: db}
}

// Store implementa repository.Store en memoria. Dentro de RunInTx opera sobre una copia
// que solo se publica si fn termina sin error.
type Store struct {
	db *Database
	tx *tables
}

func (s *Store) with(fn func(t *tables) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	defer s.db.lock()()
	return fn(s.db.data)
}

// RunInTx ejecuta fn sobre una copia del almacén; Commit = publicar la copia.
func (s *Store) RunInTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.db.txMu.Lock()
	defer s.db.txMu.Unlock()

	s.db.mu.Lock()
	snapshot := s.db.data.clone()
	s.db.mu.Unlock()

	if err := fn(&Store{db: s.db, tx: snapshot}); err != nil {
		return err
	}

	s.db.mu.Lock()
	s.db.data = snapshot
	s.db.mu.Unlock()
	return nil
}

func (s *Store) Companies() repository.CompanyRepository                { return companyRepo{s} }
func (s *Store) Users() repository.UserRepository                       { return userRepo{s} }
func (s *Store) Locations() repository.LocationRepository               { return locationRepo{s} }
func (s *Store) ProductSkus() repository.ProductSkuRepository           { return skuRepo{s} }
func (s *Store) ProductInstances() repository.ProductInstanceRepository { return instanceRepo{s} }
func (s *Store) Statuses() repository.StatusRepository                  { return statusRepo{s} }
func (s *Store) TypeMovements() repository.TypeMovementRepository       { return typeMovementRepo{s} }
func (s *Store) Orders() repository.OrderRepository                     { return orderRepo{s} }
func (s *Store) ProductMovements() repository.ProductMovementRepository { return movementRepo{s} }

// ── Carga directa (alta de tenants, datos de demo y fixtures) ─────────────────

// PutCompany inserta o reemplaza una empresa; ID 0 asigna uno nuevo.
func (db *Database) PutCompany(c entity.Company) entity.Company {
	defer db.lock()()
	c.ID = db.data.assign(c.ID)
	db.data.companies[c.ID] = c
	return c
}

// PutStatus inserta o reemplaza un estado.
func (db *Database) PutStatus(st entity.Status) entity.Status {
	defer db.lock()()
	st.ID = db.data.assign(st.ID)
	db.data.statuses[st.ID] = st
	return st
}

// PutUser inserta o reemplaza un usuario.
func (db *Database) PutUser(u entity.User) entity.User {
	defer db.lock()()
	u.ID = db.data.assign(u.ID)
	db.data.users[u.ID] = u
	return u
}

// PutUserLocations asigna ubicaciones a un usuario.
func (db *Database) PutUserLocations(userID int64, locationIDs ...int64) {
	defer db.lock()()
	db.data.userLocations[userID] = append(db.data.userLocations[userID], locationIDs...)
}

// PutLocation inserta o reemplaza una ubicación.
func (db *Database) PutLocation(l entity.Location) entity.Location {
	defer db.lock()()
	l.ID = db.data.assign(l.ID)
	db.data.locations[l.ID] = l
	return l
}

// PutSku inserta o reemplaza una referencia.
func (db *Database) PutSku(p entity.ProductSku) entity.ProductSku {
	defer db.lock()()
	p.ID = db.data.assign(p.ID)
	db.data.skus[p.ID] = p
	return p
}

// PutInstance inserta o reemplaza una instancia.
func (db *Database) PutInstance(pi entity.ProductInstance) entity.ProductInstance {
	defer db.lock()()
	pi.ID = db.data.assign(pi.ID)
	db.data.instances[pi.ID] = pi
	return pi
}

// PutTypeMovement inserta o reemplaza un tipo de movimiento.
func (db *Database) PutTypeMovement(tm entity.TypeMovement) entity.TypeMovement {
	defer db.lock()()
	tm.ID = db.data.assign(tm.ID)
	db.data.typeMovements[tm.ID] = tm
	return tm
}

// PutOrder inserta o reemplaza una orden.
func (db *Database) PutOrder(o entity.Order) entity.Order {
	defer db.lock()()
	o.ID = db.data.assign(o.ID)
	db.data.orders[o.ID] = o
	return o
}

// PutMovement inserta o reemplaza una línea de orden.
func (db *Database) PutMovement(m entity.ProductMovement) entity.ProductMovement {
	defer db.lock()()
	m.ID = db.data.assign(m.ID)
	db.data.movements[m.ID] = m
	return m
}

// Counts devuelve el número de órdenes y de líneas guardadas.
func (db *Database) Counts() (orders, movements int) {
	defer db.lock()()
	return len(db.data.orders), len(db.data.movements)
}
