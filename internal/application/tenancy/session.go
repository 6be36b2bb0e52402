package tenancy

import (
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

// Session es el contexto de datos de una petición: quién llama y el almacén de su empresa.
// Se crea una vez al inicio de la petición y se pasa explícitamente a cada caso de uso.
type Session struct {
	Email     string
	UserID    int64
	CompanyID int64
	Role      entity.Role
	Store     repository.Store
}

// IsAdmin informa si quien llama es administrador de su empresa.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == entity.RoleAdmin
}
