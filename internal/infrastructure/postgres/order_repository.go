package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository           = (*OrderRepo)(nil)
	_ repository.ProductMovementRepository = (*ProductMovementRepo)(nil)
)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
// La empresa de una orden es la de su usuario creador.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para órdenes.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera de la orden.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (user_id, type_movement_id, status_id, destination)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, o.UserID, o.TypeMovementID, o.StatusID, o.Destination).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert order: %w", domain.ErrBadReference)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByIDAndCompany obtiene la orden si su creador pertenece a la empresa.
func (r *OrderRepo) GetByIDAndCompany(ctx context.Context, id, companyID int64) (*entity.Order, error) {
	query := `
		SELECT o.id, o.user_id, o.type_movement_id, o.status_id, o.destination, o.created_at
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE o.id = $1 AND u.company_id = $2`
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(&o.ID, &o.UserID, &o.TypeMovementID, &o.StatusID, &o.Destination, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// ProductMovementRepo implementación del puerto ProductMovementRepository sobre PostgreSQL.
type ProductMovementRepo struct {
	q Querier
}

// NewProductMovementRepository construye el adaptador de persistencia para líneas de orden.
func NewProductMovementRepository(q Querier) *ProductMovementRepo {
	return &ProductMovementRepo{q: q}
}

// Create persiste una línea de orden.
func (r *ProductMovementRepo) Create(ctx context.Context, m *entity.ProductMovement) error {
	query := `
		INSERT INTO product_movements (order_id, product_instance_id, status_id)
		VALUES ($1, $2, $3)
		RETURNING id, date`
	err := r.q.QueryRow(ctx, query, m.OrderID, m.ProductInstanceID, m.StatusID).Scan(&m.ID, &m.Date)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert product movement: %w", domain.ErrBadReference)
		}
		return fmt.Errorf("insert product movement: %w", err)
	}
	return nil
}

// GetByIDAndCompany obtiene la línea si pertenece a la empresa (línea -> orden -> usuario -> empresa).
func (r *ProductMovementRepo) GetByIDAndCompany(ctx context.Context, id, companyID int64) (*entity.ProductMovement, error) {
	query := `
		SELECT pm.id, pm.order_id, pm.product_instance_id, pm.status_id, pm.date
		FROM product_movements pm
		JOIN orders o ON o.id = pm.order_id
		JOIN users u ON u.id = o.user_id
		WHERE pm.id = $1 AND u.company_id = $2`
	var m entity.ProductMovement
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(&m.ID, &m.OrderID, &m.ProductInstanceID, &m.StatusID, &m.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product movement: %w", err)
	}
	return &m, nil
}

// UpdateStatus actualiza el estado y la fecha de la línea.
func (r *ProductMovementRepo) UpdateStatus(ctx context.Context, m *entity.ProductMovement) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE product_movements SET status_id = $2, date = $3 WHERE id = $1`,
		m.ID, m.StatusID, m.Date,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("update product movement: %w", domain.ErrBadReference)
		}
		return fmt.Errorf("update product movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}
	return nil
}

const viewSelect = `
	SELECT pm.id, pm.order_id, pm.product_instance_id, pm.status_id, pm.date,
		o.id, o.user_id, o.type_movement_id, o.status_id, o.destination, o.created_at,
		pi.id, pi.product_sku_id, pi.location_id, pi.serial, pi.epc, pi.legacy_code,
		pi.description, pi.observation, pi.position, pi.status_product_instance_id, pi.created_at, pi.updated_at,
		s.id, s.name
	FROM product_movements pm
	JOIN orders o ON o.id = pm.order_id
	JOIN users u ON u.id = o.user_id
	JOIN type_movements tm ON tm.id = o.type_movement_id
	JOIN product_instances pi ON pi.id = pm.product_instance_id
	JOIN statuses s ON s.id = pm.status_id
`

func (r *ProductMovementRepo) listViews(ctx context.Context, where string, args ...any) ([]repository.MovementView, error) {
	rows, err := r.q.Query(ctx, viewSelect+where+` ORDER BY pm.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list movement views: %w", err)
	}
	defer rows.Close()
	var list []repository.MovementView
	for rows.Next() {
		var v repository.MovementView
		m, o, pi := &v.Movement, &v.Order, &v.ProductInstance
		err := rows.Scan(
			&m.ID, &m.OrderID, &m.ProductInstanceID, &m.StatusID, &m.Date,
			&o.ID, &o.UserID, &o.TypeMovementID, &o.StatusID, &o.Destination, &o.CreatedAt,
			&pi.ID, &pi.ProductSkuID, &pi.LocationID, &pi.Serial, &pi.EPC, &pi.LegacyCode,
			&pi.Description, &pi.Observation, &pi.Position, &pi.StatusProductInstanceID, &pi.CreatedAt, &pi.UpdatedAt,
			&v.Status.ID, &v.Status.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("scan movement view: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// ListViewsByTypeAndStatus proyecta las líneas de la empresa por nombre de tipo y de estado.
func (r *ProductMovementRepo) ListViewsByTypeAndStatus(ctx context.Context, companyID int64, typeName, statusName string) ([]repository.MovementView, error) {
	return r.listViews(ctx, `WHERE u.company_id = $1 AND tm.name = $2 AND s.name = $3`, companyID, typeName, statusName)
}

// ListViewsByOrder proyecta las líneas de una orden de la empresa.
func (r *ProductMovementRepo) ListViewsByOrder(ctx context.Context, orderID, companyID int64) ([]repository.MovementView, error) {
	return r.listViews(ctx, `WHERE pm.order_id = $1 AND u.company_id = $2`, orderID, companyID)
}
