package entity

import "time"

// Location lugar físico donde residen o hacia donde se mueven los productos.
type Location struct {
	ID        int64
	CompanyID int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
