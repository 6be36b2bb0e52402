package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

var _ repository.Store = (*Store)(nil)

// Store contexto de datos de un tenant sobre PostgreSQL. Fuera de RunInTx los repositorios usan
// el pool; dentro, la transacción.
type Store struct {
	pool *pgxpool.Pool
	q    Querier
	inTx bool
}

// NewStore construye el Store sobre el pool del almacén del tenant.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

// RunInTx inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Una llamada anidada reutiliza la transacción en curso.
func (s *Store) RunInTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Store{pool: s.pool, q: tx, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Companies() repository.CompanyRepository { return NewCompanyRepository(s.q) }
func (s *Store) Users() repository.UserRepository        { return NewUserRepository(s.q) }
func (s *Store) Locations() repository.LocationRepository {
	return NewLocationRepository(s.q)
}
func (s *Store) ProductSkus() repository.ProductSkuRepository {
	return NewProductSkuRepository(s.q)
}
func (s *Store) ProductInstances() repository.ProductInstanceRepository {
	return NewProductInstanceRepository(s.q)
}
func (s *Store) Statuses() repository.StatusRepository { return NewStatusRepository(s.q) }
func (s *Store) TypeMovements() repository.TypeMovementRepository {
	return NewTypeMovementRepository(s.q)
}
func (s *Store) Orders() repository.OrderRepository { return NewOrderRepository(s.q) }
func (s *Store) ProductMovements() repository.ProductMovementRepository {
	return NewProductMovementRepository(s.q)
}
