package usecase

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain"
)

// CompanyUseCase consulta la empresa de la sesión. Las empresas se dan de alta con el CLI de operación.
type CompanyUseCase struct{}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase() *CompanyUseCase {
	return &CompanyUseCase{}
}

// Current devuelve la empresa a la que pertenece quien llama.
func (uc *CompanyUseCase) Current(ctx context.Context, sess *tenancy.Session) (*dto.CompanyResponse, error) {
	company, err := sess.Store.Companies().GetByID(ctx, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.ToCompanyResponse(company)
	return &resp, nil
}
