package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// DemoTenant parámetros de la empresa de demostración.
type DemoTenant struct {
	// CompanyID id explícito de la empresa; 0 = siguiente de la secuencia.
	CompanyID   int64
	CompanyName string
	AdminEmail  string
	UserEmail   string
	// DSN del almacén de la empresa; vacío = almacén compartido.
	DSN string
}

// DefaultDemoTenant empresa de devoluciones usada en desarrollo local.
func DefaultDemoTenant() DemoTenant {
	return DemoTenant{
		CompanyName: "Example Company returns",
		AdminEmail:  "aliceReturn@example.com",
		UserEmail:   "bobReturns@example.com",
	}
}

// Demo ids y filas creadas por SeedDemo.
type Demo struct {
	Company   entity.Company
	Admin     entity.User
	User      entity.User
	Skus      [2]entity.ProductSku
	Locations [2]entity.Location
	Instances [3]entity.ProductInstance
	Completed entity.Status
	InProcess entity.Status
	Returns   entity.TypeMovement
	Order     entity.Order
	Movements [3]entity.ProductMovement
}

// SeedDemo carga una empresa con una orden de devolución de tres líneas (dos completadas,
// una en proceso) y registra a sus dos usuarios en el directorio.
func SeedDemo(ctx context.Context, dir *Directory, opener *Opener, t DemoTenant) (Demo, error) {
	db := opener.Database(entity.StoreLocation{DSN: t.DSN})
	var d Demo

	d.Company = db.PutCompany(entity.Company{
		ID:           t.CompanyID,
		Name:         t.CompanyName,
		GS1CompanyID: "12345",
		Logo:         "http://example.com/logo.png",
		EPCSequence:  "001",
		AuthMethod:   entity.AuthMethodOAuth,
	})
	d.Admin = db.PutUser(entity.User{Name: "Alice", Email: tenancy.NormalizeEmail(t.AdminEmail), Role: entity.RoleAdmin, CompanyID: d.Company.ID})
	d.User = db.PutUser(entity.User{Name: "Bob", Email: tenancy.NormalizeEmail(t.UserEmail), Role: entity.RoleUser, CompanyID: d.Company.ID})

	d.Skus[0] = db.PutSku(entity.ProductSku{Name: "Product AAA", Description: "Description A", CompanyID: d.Company.ID, Barcode: "123456789", Price: decimal.Zero})
	d.Skus[1] = db.PutSku(entity.ProductSku{Name: "Product BAA", Description: "Description B", CompanyID: d.Company.ID, Barcode: "987654321", Price: decimal.Zero})

	d.Locations[0] = db.PutLocation(entity.Location{Name: "Location 1", CompanyID: d.Company.ID})
	d.Locations[1] = db.PutLocation(entity.Location{Name: "Location 2", CompanyID: d.Company.ID})
	db.PutUserLocations(d.Admin.ID, d.Locations[0].ID, d.Locations[1].ID)

	d.Instances[0] = db.PutInstance(entity.ProductInstance{ProductSkuID: d.Skus[0].ID, Serial: "123456789", EPC: "123456789012345678901234", LegacyCode: "23456789", LocationID: ptr(d.Locations[0].ID)})
	d.Instances[1] = db.PutInstance(entity.ProductInstance{ProductSkuID: d.Skus[1].ID, Serial: "987654321", EPC: "987654321098765432109876", LegacyCode: "87654321", LocationID: ptr(d.Locations[1].ID)})
	d.Instances[2] = db.PutInstance(entity.ProductInstance{ProductSkuID: d.Skus[0].ID, Serial: "901234211", EPC: "123456789555555555555555", LegacyCode: "32234444", LocationID: ptr(d.Locations[0].ID)})

	var err error
	if d.Completed, err = ensureStatus(ctx, db, entity.StatusCompleted); err != nil {
		return Demo{}, err
	}
	if d.InProcess, err = ensureStatus(ctx, db, entity.StatusInProcess); err != nil {
		return Demo{}, err
	}

	d.Returns = db.PutTypeMovement(entity.TypeMovement{Name: entity.TypeMovementReturns, Initials: entity.TypeMovementReturnsInitials, CompanyID: d.Company.ID})
	d.Order = db.PutOrder(entity.Order{UserID: d.Admin.ID, StatusID: d.Completed.ID, TypeMovementID: d.Returns.ID, Destination: d.Locations[0].Name})

	d.Movements[0] = db.PutMovement(entity.ProductMovement{OrderID: d.Order.ID, ProductInstanceID: d.Instances[0].ID, StatusID: d.Completed.ID})
	d.Movements[1] = db.PutMovement(entity.ProductMovement{OrderID: d.Order.ID, ProductInstanceID: d.Instances[1].ID, StatusID: d.Completed.ID})
	d.Movements[2] = db.PutMovement(entity.ProductMovement{OrderID: d.Order.ID, ProductInstanceID: d.Instances[2].ID, StatusID: d.InProcess.ID})

	if err := dir.RegisterTenant(d.Company.ID, t.DSN); err != nil {
		return Demo{}, fmt.Errorf("registrar empresa %d: %w", d.Company.ID, err)
	}
	for _, u := range []entity.User{d.Admin, d.User} {
		err := dir.RegisterUser(ctx, entity.TenantBinding{
			Email:     u.Email,
			UserID:    u.ID,
			CompanyID: d.Company.ID,
			Role:      u.Role,
		})
		if err != nil {
			return Demo{}, fmt.Errorf("registrar %s: %w", u.Email, err)
		}
	}
	return d, nil
}

// ensureStatus reutiliza el estado si ya existe en el almacén (los estados son globales).
func ensureStatus(ctx context.Context, db *Database, name string) (entity.Status, error) {
	st, err := db.Store().Statuses().GetByName(ctx, name)
	if err != nil {
		return entity.Status{}, err
	}
	if st != nil {
		return *st, nil
	}
	return db.PutStatus(entity.Status{Name: name}), nil
}
