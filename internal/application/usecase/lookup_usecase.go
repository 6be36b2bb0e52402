package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// LookupUseCase tablas de referencia: estados y tipos de movimiento.
type LookupUseCase struct{}

// NewLookupUseCase construye el caso de uso.
func NewLookupUseCase() *LookupUseCase {
	return &LookupUseCase{}
}

// ListStatuses lista los estados disponibles en el almacén.
func (uc *LookupUseCase) ListStatuses(ctx context.Context, sess *tenancy.Session) ([]dto.StatusResponse, error) {
	list, err := sess.Store.Statuses().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StatusResponse, 0, len(list))
	for _, st := range list {
		out = append(out, dto.ToStatusResponse(st))
	}
	return out, nil
}

// ListTypeMovements lista los tipos de movimiento de la empresa.
func (uc *LookupUseCase) ListTypeMovements(ctx context.Context, sess *tenancy.Session) ([]dto.TypeMovementResponse, error) {
	list, err := sess.Store.TypeMovements().ListByCompany(ctx, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TypeMovementResponse, 0, len(list))
	for _, tm := range list {
		out = append(out, dto.ToTypeMovementResponse(tm))
	}
	return out, nil
}

// CreateTypeMovement crea un tipo de movimiento; las iniciales son únicas por empresa.
func (uc *LookupUseCase) CreateTypeMovement(ctx context.Context, sess *tenancy.Session, in dto.CreateTypeMovementRequest) (*dto.TypeMovementResponse, error) {
	initials := strings.ToUpper(strings.TrimSpace(in.Initials))
	name := strings.TrimSpace(in.Name)
	if initials == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := sess.Store.TypeMovements().GetByCompanyAndInitials(ctx, sess.CompanyID, initials)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflict(domain.MsgTypeMovementExists)
	}
	tm := &entity.TypeMovement{CompanyID: sess.CompanyID, Name: name, Initials: initials}
	if err := sess.Store.TypeMovements().Create(ctx, tm); err != nil {
		return nil, err
	}
	resp := dto.ToTypeMovementResponse(tm)
	return &resp, nil
}
