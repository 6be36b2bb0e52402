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
	_ repository.StatusRepository       = (*StatusRepo)(nil)
	_ repository.TypeMovementRepository = (*TypeMovementRepo)(nil)
)

// StatusRepo tabla de estados (compartida por instancias y movimientos).
type StatusRepo struct {
	q Querier
}

// NewStatusRepository construye el adaptador de estados.
func NewStatusRepository(q Querier) *StatusRepo {
	return &StatusRepo{q: q}
}

func (r *StatusRepo) get(ctx context.Context, where string, arg any) (*entity.Status, error) {
	var st entity.Status
	err := r.q.QueryRow(ctx, `SELECT id, name FROM statuses WHERE `+where, arg).Scan(&st.ID, &st.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get status: %w", err)
	}
	return &st, nil
}

// GetByID obtiene un estado por ID.
func (r *StatusRepo) GetByID(ctx context.Context, id int64) (*entity.Status, error) {
	return r.get(ctx, `id = $1`, id)
}

// GetByName obtiene un estado por nombre exacto.
func (r *StatusRepo) GetByName(ctx context.Context, name string) (*entity.Status, error) {
	return r.get(ctx, `name = $1`, name)
}

// List devuelve todos los estados.
func (r *StatusRepo) List(ctx context.Context) ([]*entity.Status, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM statuses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Status
	for rows.Next() {
		var st entity.Status
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		list = append(list, &st)
	}
	return list, rows.Err()
}

// TypeMovementRepo tipos de movimiento por empresa.
type TypeMovementRepo struct {
	q Querier
}

// NewTypeMovementRepository construye el adaptador de tipos de movimiento.
func NewTypeMovementRepository(q Querier) *TypeMovementRepo {
	return &TypeMovementRepo{q: q}
}

// Create persiste un nuevo tipo de movimiento.
func (r *TypeMovementRepo) Create(ctx context.Context, tm *entity.TypeMovement) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO type_movements (company_id, name, initials) VALUES ($1, $2, $3) RETURNING id`,
		tm.CompanyID, tm.Name, tm.Initials,
	).Scan(&tm.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return asConflict(err, domain.MsgTypeMovementExists)
		}
		return fmt.Errorf("insert type movement: %w", err)
	}
	return nil
}

// GetByCompanyAndInitials obtiene el tipo de movimiento de la empresa por sus iniciales.
func (r *TypeMovementRepo) GetByCompanyAndInitials(ctx context.Context, companyID int64, initials string) (*entity.TypeMovement, error) {
	var tm entity.TypeMovement
	err := r.q.QueryRow(ctx,
		`SELECT id, company_id, name, initials FROM type_movements WHERE company_id = $1 AND initials = $2`,
		companyID, initials,
	).Scan(&tm.ID, &tm.CompanyID, &tm.Name, &tm.Initials)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get type movement: %w", err)
	}
	return &tm, nil
}

// ListByCompany lista los tipos de movimiento de la empresa.
func (r *TypeMovementRepo) ListByCompany(ctx context.Context, companyID int64) ([]*entity.TypeMovement, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, company_id, name, initials FROM type_movements WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list type movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.TypeMovement
	for rows.Next() {
		var tm entity.TypeMovement
		if err := rows.Scan(&tm.ID, &tm.CompanyID, &tm.Name, &tm.Initials); err != nil {
			return nil, fmt.Errorf("scan type movement: %w", err)
		}
		list = append(list, &tm)
	}
	return list, rows.Err()
}
