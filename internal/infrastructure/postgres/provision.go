package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// ProvisionTenant da de alta una empresa: migra su almacén, crea la fila companies con el id indicado
// y la registra en el plano de control. dsn vacío = almacén compartido del registro.
func ProvisionTenant(ctx context.Context, dir *Directory, stores *StoreRegistry, company entity.Company, dsn string) error {
	if company.ID <= 0 {
		return fmt.Errorf("id de empresa inválido: %d", company.ID)
	}
	if company.AuthMethod == "" {
		company.AuthMethod = entity.AuthMethodPassword
	}

	target := dsn
	if target == "" {
		target = stores.sharedDSN
	}
	if err := MigrateTenant(target); err != nil {
		return err
	}
	pool, err := stores.pool(ctx, target)
	if err != nil {
		return err
	}

	companies := NewCompanyRepository(pool)
	existing, err := companies.GetByID(ctx, company.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		if err := companies.Create(ctx, &company); err != nil {
			return err
		}
	}
	return dir.RegisterTenant(ctx, company.ID, company.Name, dsn)
}
