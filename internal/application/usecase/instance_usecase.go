package usecase

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

// InstanceUseCase unidades físicas serializadas.
type InstanceUseCase struct{}

// NewInstanceUseCase construye el caso de uso.
func NewInstanceUseCase() *InstanceUseCase {
	return &InstanceUseCase{}
}

// List lista las instancias de la empresa; locationID nil = todas.
func (uc *InstanceUseCase) List(ctx context.Context, sess *tenancy.Session, locationID *int64) ([]dto.InstanceResponse, error) {
	list, err := sess.Store.ProductInstances().ListByCompany(ctx, sess.CompanyID, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InstanceResponse, 0, len(list))
	for _, pi := range list {
		out = append(out, dto.ToInstanceResponse(pi))
	}
	return out, nil
}

// Create registra una instancia de una referencia de la empresa.
func (uc *InstanceUseCase) Create(ctx context.Context, sess *tenancy.Session, in dto.CreateInstanceRequest) (*dto.InstanceResponse, error) {
	pi := &entity.ProductInstance{
		ProductSkuID:            in.ProductSkuID,
		LocationID:              in.LocationID,
		Serial:                  in.Serial,
		EPC:                     in.EPC,
		LegacyCode:              in.LegacyCode,
		Description:             in.Description,
		Observation:             in.Observation,
		Position:                in.Position,
		StatusProductInstanceID: in.StatusID,
	}
	err := sess.Store.RunInTx(ctx, func(tx repository.Store) error {
		sku, err := tx.ProductSkus().GetByIDAndCompany(ctx, in.ProductSkuID, sess.CompanyID)
		if err != nil {
			return err
		}
		if sku == nil {
			return domain.NewBadReference(domain.MsgSkuNotFound)
		}
		if in.LocationID != nil {
			loc, err := tx.Locations().GetByIDAndCompany(ctx, *in.LocationID, sess.CompanyID)
			if err != nil {
				return err
			}
			if loc == nil {
				return domain.NewBadReference(domain.MsgLocationNotFound)
			}
		}
		if in.StatusID != nil {
			if err := requireStatus(ctx, tx, *in.StatusID); err != nil {
				return err
			}
		}
		if in.EPC != "" {
			existing, err := tx.ProductInstances().GetByCompanyAndEPC(ctx, sess.CompanyID, in.EPC)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.NewConflict(domain.MsgEPCTaken)
			}
		}
		return tx.ProductInstances().Create(ctx, pi)
	})
	if err != nil {
		return nil, err
	}
	resp := dto.ToInstanceResponse(pi)
	return &resp, nil
}

// requireStatus BadReference si el estado no existe.
func requireStatus(ctx context.Context, store repository.Store, id int64) error {
	st, err := store.Statuses().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if st == nil {
		return domain.NewBadReference(domain.MsgStatusNotFound)
	}
	return nil
}
