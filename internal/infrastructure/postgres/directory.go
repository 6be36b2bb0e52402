package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

var _ tenancy.Directory = (*Directory)(nil)

// Directory plano de control sobre PostgreSQL (tablas tenants y tenant_users).
type Directory struct {
	pool *pgxpool.Pool
}

// NewDirectory construye el directorio sobre el pool del plano de control.
func NewDirectory(pool *pgxpool.Pool) *Directory {
	return &Directory{pool: pool}
}

// ResolveStore implementa tenancy.Directory.
func (d *Directory) ResolveStore(ctx context.Context, email string) (*entity.TenantBinding, error) {
	query := `
		SELECT tu.email, tu.user_id, tu.company_id, tu.role, t.store_dsn
		FROM tenant_users tu JOIN tenants t ON t.company_id = tu.company_id
		WHERE tu.email = $1`
	var b entity.TenantBinding
	err := d.pool.QueryRow(ctx, query, tenancy.NormalizeEmail(email)).Scan(
		&b.Email, &b.UserID, &b.CompanyID, &b.Role, &b.Store.DSN,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("resolve tenant: %w", err)
	}
	b.Store.CompanyID = b.CompanyID
	return &b, nil
}

// RegisterUser implementa tenancy.Directory. El upsert solo actualiza filas de la misma empresa:
// 0 filas afectadas significa que el email ya pertenece a otra.
func (d *Directory) RegisterUser(ctx context.Context, b entity.TenantBinding) error {
	query := `
		INSERT INTO tenant_users (email, company_id, user_id, role, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (email) DO UPDATE
		SET user_id = EXCLUDED.user_id, role = EXCLUDED.role, updated_at = now()
		WHERE tenant_users.company_id = EXCLUDED.company_id`
	tag, err := d.pool.Exec(ctx, query, tenancy.NormalizeEmail(b.Email), b.CompanyID, b.UserID, b.Role)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("register tenant user: %w", domain.ErrTenantNotFound)
		}
		return fmt.Errorf("register tenant user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewConflict(domain.MsgEmailOtherTenant)
	}
	return nil
}

// RegisterTenant crea la fila de la empresa en el plano de control o actualiza su nombre.
// dsn vacío = almacén compartido. Una empresa ya registrada con otro almacén devuelve Conflict:
// mover un tenant dejaría bindings en caché apuntando al almacén anterior.
func (d *Directory) RegisterTenant(ctx context.Context, companyID int64, name, dsn string) error {
	query := `
		INSERT INTO tenants (company_id, name, store_dsn)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id) DO UPDATE SET name = EXCLUDED.name
		WHERE tenants.store_dsn = EXCLUDED.store_dsn`
	tag, err := d.pool.Exec(ctx, query, companyID, name, dsn)
	if err != nil {
		return fmt.Errorf("register tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewConflict(domain.MsgTenantStoreTaken)
	}
	return nil
}
