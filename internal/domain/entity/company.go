package entity

import "time"

// AuthMethod mecanismo de autenticación configurado para la empresa.
type AuthMethod string

const (
	AuthMethodPassword AuthMethod = "password"
	AuthMethodOAuth    AuthMethod = "oauth"
)

// Company representa una organización/tenant del sistema. Es la unidad de aislamiento de datos.
type Company struct {
	ID           int64
	Name         string
	GS1CompanyID string // identificador GS1 de la empresa
	Logo         string
	EPCSequence  string // contador para códigos EPC generados
	AuthMethod   AuthMethod
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
