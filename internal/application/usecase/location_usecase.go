package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// LocationUseCase ubicaciones de la empresa.
type LocationUseCase struct{}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase() *LocationUseCase {
	return &LocationUseCase{}
}

// List lista las ubicaciones de la empresa.
func (uc *LocationUseCase) List(ctx context.Context, sess *tenancy.Session) ([]dto.LocationResponse, error) {
	locs, err := sess.Store.Locations().ListByCompany(ctx, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locs))
	for _, l := range locs {
		out = append(out, dto.ToLocationResponse(l))
	}
	return out, nil
}

// Create crea una ubicación.
func (uc *LocationUseCase) Create(ctx context.Context, sess *tenancy.Session, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	loc := &entity.Location{CompanyID: sess.CompanyID, Name: name}
	if err := sess.Store.Locations().Create(ctx, loc); err != nil {
		return nil, err
	}
	resp := dto.ToLocationResponse(loc)
	return &resp, nil
}
