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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, company_id, name, email, role, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.CompanyID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (company_id, name, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, user.CompanyID, user.Name, user.Email, user.Role).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return asConflict(err, domain.MsgUserExists)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Delete borra el usuario; sus ubicaciones caen por ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id, companyID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1 AND company_id = $2`, id, companyID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmailAndCompany obtiene un usuario por email y company.
func (r *UserRepo) GetByEmailAndCompany(ctx context.Context, email string, companyID int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND company_id = $2`
	u, err := scanUser(r.q.QueryRow(ctx, query, email, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email and company: %w", err)
	}
	return u, nil
}

// ListByCompany lista usuarios por company.
func (r *UserRepo) ListByCompany(ctx context.Context, companyID int64) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// ReplaceLocations reemplaza las ubicaciones asignadas. Debe ejecutarse dentro de RunInTx.
func (r *UserRepo) ReplaceLocations(ctx context.Context, userID int64, locationIDs []int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_locations WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user locations: %w", err)
	}
	if len(locationIDs) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_locations (user_id, location_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`, userID, locationIDs)
	if err != nil {
		return fmt.Errorf("insert user locations: %w", err)
	}
	return nil
}

// ListLocationIDs ids de ubicaciones asignadas al usuario.
func (r *UserRepo) ListLocationIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT location_id FROM user_locations WHERE user_id = $1 ORDER BY location_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user locations: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}
