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

var _ repository.ProductInstanceRepository = (*ProductInstanceRepo)(nil)

// ProductInstanceRepo implementación del puerto ProductInstanceRepository sobre PostgreSQL.
// La empresa se resuelve con un join a product_skus.
type ProductInstanceRepo struct {
	q Querier
}

// NewProductInstanceRepository construye el adaptador de persistencia para instancias.
func NewProductInstanceRepository(q Querier) *ProductInstanceRepo {
	return &ProductInstanceRepo{q: q}
}

const instanceColumns = `pi.id, pi.product_sku_id, pi.location_id, pi.serial, pi.epc, pi.legacy_code,
	pi.description, pi.observation, pi.position, pi.status_product_instance_id, pi.created_at, pi.updated_at`

const instanceFrom = ` FROM product_instances pi JOIN product_skus ps ON ps.id = pi.product_sku_id `

func scanInstance(row pgx.Row) (*entity.ProductInstance, error) {
	var pi entity.ProductInstance
	err := row.Scan(&pi.ID, &pi.ProductSkuID, &pi.LocationID, &pi.Serial, &pi.EPC, &pi.LegacyCode,
		&pi.Description, &pi.Observation, &pi.Position, &pi.StatusProductInstanceID, &pi.CreatedAt, &pi.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &pi, nil
}

// Create persiste una nueva instancia.
func (r *ProductInstanceRepo) Create(ctx context.Context, pi *entity.ProductInstance) error {
	query := `
		INSERT INTO product_instances (product_sku_id, location_id, serial, epc, legacy_code, description,
			observation, position, status_product_instance_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		pi.ProductSkuID, pi.LocationID, pi.Serial, pi.EPC, pi.LegacyCode, pi.Description,
		pi.Observation, pi.Position, pi.StatusProductInstanceID,
	).Scan(&pi.ID, &pi.CreatedAt, &pi.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return asConflict(err, domain.MsgEPCTaken)
		}
		return fmt.Errorf("insert product instance: %w", err)
	}
	return nil
}

// GetByIDAndCompany obtiene una instancia cuya referencia pertenece a la empresa.
func (r *ProductInstanceRepo) GetByIDAndCompany(ctx context.Context, id, companyID int64) (*entity.ProductInstance, error) {
	query := `SELECT ` + instanceColumns + instanceFrom + `WHERE pi.id = $1 AND ps.company_id = $2`
	pi, err := scanInstance(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product instance: %w", err)
	}
	return pi, nil
}

// GetByCompanyAndEPC obtiene una instancia de la empresa por EPC.
func (r *ProductInstanceRepo) GetByCompanyAndEPC(ctx context.Context, companyID int64, epc string) (*entity.ProductInstance, error) {
	if epc == "" {
		return nil, nil
	}
	query := `SELECT ` + instanceColumns + instanceFrom + `WHERE pi.epc = $1 AND ps.company_id = $2 ORDER BY pi.id LIMIT 1`
	pi, err := scanInstance(r.q.QueryRow(ctx, query, epc, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product instance by epc: %w", err)
	}
	return pi, nil
}

// ListByCompany lista instancias de la empresa, opcionalmente de una sola ubicación.
func (r *ProductInstanceRepo) ListByCompany(ctx context.Context, companyID int64, locationID *int64) ([]*entity.ProductInstance, error) {
	query := `SELECT ` + instanceColumns + instanceFrom +
		`WHERE ps.company_id = $1 AND ($2::bigint IS NULL OR pi.location_id = $2) ORDER BY pi.id`
	rows, err := r.q.Query(ctx, query, companyID, locationID)
	if err != nil {
		return nil, fmt.Errorf("list product instances: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductInstance
	for rows.Next() {
		pi, err := scanInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product instance: %w", err)
		}
		list = append(list, pi)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables de la instancia.
func (r *ProductInstanceRepo) Update(ctx context.Context, pi *entity.ProductInstance) error {
	query := `
		UPDATE product_instances SET location_id = $2, serial = $3, epc = $4, legacy_code = $5,
			description = $6, observation = $7, position = $8, status_product_instance_id = $9, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query,
		pi.ID, pi.LocationID, pi.Serial, pi.EPC, pi.LegacyCode, pi.Description, pi.Observation,
		pi.Position, pi.StatusProductInstanceID,
	).Scan(&pi.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update product instance: %w", err)
	}
	return nil
}
