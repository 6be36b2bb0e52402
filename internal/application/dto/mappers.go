package dto

import (
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

// Mapeos entidad -> respuesta compartidos por los casos de uso.

func ToProductResponse(p *entity.ProductSku) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		SupplierID:  p.SupplierID,
		Name:        p.Name,
		Description: p.Description,
		Barcode:     p.Barcode,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToUserResponse(u *entity.User, locationIDs []int64) UserResponse {
	if locationIDs == nil {
		locationIDs = []int64{}
	}
	return UserResponse{
		ID:          u.ID,
		CompanyID:   u.CompanyID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		LocationIDs: locationIDs,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func ToLocationResponse(l *entity.Location) LocationResponse {
	return LocationResponse{ID: l.ID, CompanyID: l.CompanyID, Name: l.Name, CreatedAt: l.CreatedAt}
}

func ToInstanceResponse(pi *entity.ProductInstance) InstanceResponse {
	return InstanceResponse{
		ID:           pi.ID,
		ProductSkuID: pi.ProductSkuID,
		LocationID:   pi.LocationID,
		Serial:       pi.Serial,
		EPC:          pi.EPC,
		LegacyCode:   pi.LegacyCode,
		Description:  pi.Description,
		Observation:  pi.Observation,
		Position:     pi.Position,
		StatusID:     pi.StatusProductInstanceID,
		UpdatedAt:    pi.UpdatedAt,
	}
}

func ToStatusResponse(st *entity.Status) StatusResponse {
	return StatusResponse{ID: st.ID, Name: st.Name}
}

func ToTypeMovementResponse(tm *entity.TypeMovement) TypeMovementResponse {
	return TypeMovementResponse{ID: tm.ID, CompanyID: tm.CompanyID, Name: tm.Name, Initials: tm.Initials}
}

func ToOrderSummary(o *entity.Order) OrderSummary {
	return OrderSummary{
		ID:             o.ID,
		UserID:         o.UserID,
		TypeMovementID: o.TypeMovementID,
		StatusID:       o.StatusID,
		Destination:    o.Destination,
		CreatedAt:      o.CreatedAt,
	}
}

// ToMovementResponses convierte la proyección de lectura; nunca devuelve nil.
func ToMovementResponses(views []repository.MovementView) []MovementResponse {
	out := make([]MovementResponse, 0, len(views))
	for i := range views {
		v := &views[i]
		out = append(out, MovementResponse{
			ID:              v.Movement.ID,
			Date:            v.Movement.Date,
			Order:           ToOrderSummary(&v.Order),
			ProductInstance: ToInstanceResponse(&v.ProductInstance),
			Status:          ToStatusResponse(&v.Status),
		})
	}
	return out
}

func ToCompanyResponse(c *entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:           c.ID,
		Name:         c.Name,
		GS1CompanyID: c.GS1CompanyID,
		Logo:         c.Logo,
		EPCSequence:  c.EPCSequence,
		AuthMethod:   string(c.AuthMethod),
		CreatedAt:    c.CreatedAt,
	}
}
