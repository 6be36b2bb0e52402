package entity

import "time"

// Role rol de un usuario dentro de su empresa.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid informa si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID        int64
	CompanyID int64
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
