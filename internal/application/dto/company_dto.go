package dto

import "time"

// CompanyResponse salida de la empresa del tenant.
type CompanyResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	GS1CompanyID string    `json:"gs1_company_id"`
	Logo         string    `json:"logo"`
	EPCSequence  string    `json:"epc_sequence"`
	AuthMethod   string    `json:"auth_method"`
	CreatedAt    time.Time `json:"created_at"`
}
