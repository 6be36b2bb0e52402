package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de persistencia para ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (company_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`
	if err := r.q.QueryRow(ctx, query, l.CompanyID, l.Name).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByIDAndCompany obtiene una ubicación de la empresa.
func (r *LocationRepo) GetByIDAndCompany(ctx context.Context, id, companyID int64) (*entity.Location, error) {
	query := `
		SELECT id, company_id, name, created_at, updated_at
		FROM locations WHERE id = $1 AND company_id = $2`
	var l entity.Location
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(&l.ID, &l.CompanyID, &l.Name, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// ListByCompany lista ubicaciones por empresa.
func (r *LocationRepo) ListByCompany(ctx context.Context, companyID int64) ([]*entity.Location, error) {
	query := `
		SELECT id, company_id, name, created_at, updated_at
		FROM locations WHERE company_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.Name, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
