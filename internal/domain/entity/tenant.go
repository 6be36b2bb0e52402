package entity

// StoreLocation dirección física del almacén de datos de una empresa.
// DSN vacío significa que la empresa vive en el almacén compartido.
type StoreLocation struct {
	CompanyID int64
	DSN       string
}

// TenantBinding resultado de resolver un email en el directorio de tenants.
type TenantBinding struct {
	Email     string
	UserID    int64
	CompanyID int64
	Role      Role
	Store     StoreLocation
}
