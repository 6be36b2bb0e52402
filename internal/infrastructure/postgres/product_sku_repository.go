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

var _ repository.ProductSkuRepository = (*ProductSkuRepo)(nil)

// ProductSkuRepo implementación del puerto ProductSkuRepository sobre PostgreSQL (usable con pool o tx).
type ProductSkuRepo struct {
	q Querier
}

// NewProductSkuRepository construye el adaptador de persistencia para referencias. Pasar pool o tx (Querier).
func NewProductSkuRepository(q Querier) *ProductSkuRepo {
	return &ProductSkuRepo{q: q}
}

const skuColumns = `id, company_id, supplier_id, name, description, barcode, price, created_at, updated_at`

func scanSku(row pgx.Row) (*entity.ProductSku, error) {
	var p entity.ProductSku
	err := row.Scan(&p.ID, &p.CompanyID, &p.SupplierID, &p.Name, &p.Description, &p.Barcode, &p.Price,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductSkuRepo) getOne(ctx context.Context, op, where string, args ...any) (*entity.ProductSku, error) {
	p, err := scanSku(r.q.QueryRow(ctx, `SELECT `+skuColumns+` FROM product_skus WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Create persiste una nueva referencia.
func (r *ProductSkuRepo) Create(ctx context.Context, p *entity.ProductSku) error {
	query := `
		INSERT INTO product_skus (company_id, supplier_id, name, description, barcode, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		p.CompanyID, p.SupplierID, p.Name, p.Description, p.Barcode, p.Price,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return asConflict(err, domain.MsgSkuNameSupplier)
		}
		return fmt.Errorf("insert product sku: %w", err)
	}
	return nil
}

// GetByIDAndCompany obtiene una referencia de la empresa.
func (r *ProductSkuRepo) GetByIDAndCompany(ctx context.Context, id, companyID int64) (*entity.ProductSku, error) {
	return r.getOne(ctx, "get product sku", `id = $1 AND company_id = $2`, id, companyID)
}

// GetByCompanyAndBarcode obtiene una referencia por empresa y código de barras.
func (r *ProductSkuRepo) GetByCompanyAndBarcode(ctx context.Context, companyID int64, barcode string) (*entity.ProductSku, error) {
	if barcode == "" {
		return nil, nil
	}
	return r.getOne(ctx, "get product sku by barcode", `company_id = $1 AND barcode = $2 ORDER BY id LIMIT 1`, companyID, barcode)
}

// GetByNameAndSupplier busca por (nombre, proveedor, empresa). IS NOT DISTINCT FROM hace que NULL coincida con NULL.
func (r *ProductSkuRepo) GetByNameAndSupplier(ctx context.Context, companyID int64, name string, supplierID *int64) (*entity.ProductSku, error) {
	return r.getOne(ctx, "get product sku by name and supplier",
		`company_id = $1 AND name = $2 AND supplier_id IS NOT DISTINCT FROM $3 ORDER BY id LIMIT 1`,
		companyID, name, supplierID)
}

// ListByCompany lista referencias por empresa.
func (r *ProductSkuRepo) ListByCompany(ctx context.Context, companyID int64) ([]*entity.ProductSku, error) {
	rows, err := r.q.Query(ctx, `SELECT `+skuColumns+` FROM product_skus WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list product skus: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductSku
	for rows.Next() {
		p, err := scanSku(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product sku: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
