package repository

import "context"

// Store es el contexto de datos de un tenant: todos los repositorios atados al mismo almacén.
// Una petición obtiene un Store al resolver su tenant y lo usa hasta terminar.
type Store interface {
	Companies() CompanyRepository
	Users() UserRepository
	Locations() LocationRepository
	ProductSkus() ProductSkuRepository
	ProductInstances() ProductInstanceRepository
	Statuses() StatusRepository
	TypeMovements() TypeMovementRepository
	Orders() OrderRepository
	ProductMovements() ProductMovementRepository

	// RunInTx ejecuta fn con un Store atado a una transacción: Commit si fn retorna nil,
	// Rollback en cualquier otro caso.
	RunInTx(ctx context.Context, fn func(tx Store) error) error
}
