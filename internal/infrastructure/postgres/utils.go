package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Retail-api/internal/domain"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// conflictMessages mensaje de negocio por constraint único.
var conflictMessages = map[string]string{
	"uq_users_company_email":        domain.MsgUserExists,
	"uq_product_skus_barcode":       domain.MsgBarcodeTaken,
	"uq_product_skus_name_supplier": domain.MsgSkuNameSupplier,
	"uq_type_movements_initials":    domain.MsgTypeMovementExists,
}

// asConflict traduce una violación de unicidad a domain.ConflictError. fallback se usa cuando
// el constraint no tiene mensaje propio.
func asConflict(err error, fallback string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := conflictMessages[pgErr.ConstraintName]; ok {
			return domain.NewConflict(msg)
		}
	}
	return domain.NewConflict(fallback)
}
