package dto

import "time"

// CreateUserRequest entrada para crear un usuario. CompanyID es opcional: por defecto la empresa
// de quien llama.
type CreateUserRequest struct {
	CompanyID int64  `json:"company_id" validate:"omitempty,gt=0"`
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Role      string `json:"role" validate:"required,oneof=admin user"`
}

// UserResponse salida de un usuario.
type UserResponse struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	LocationIDs []int64   `json:"location_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AssignLocationsRequest reemplaza las ubicaciones asignadas a un usuario.
type AssignLocationsRequest struct {
	LocationIDs []int64 `json:"location_ids" validate:"dive,gt=0"`
}
