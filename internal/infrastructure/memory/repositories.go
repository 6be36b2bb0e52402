package memory

import (
	"context"
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

// errForeignKey equivale a una violación de llave foránea en el almacén relacional.
var errForeignKey = errors.New("memory: violación de llave foránea")

func ptr[T any](v T) *T { return &v }

func sortedIDs[V any](m map[int64]V) []int64 {
	return slices.Sorted(maps.Keys(m))
}

func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// ── Companies ──────────────────────────────────────────────────────────────────

type companyRepo struct{ s *Store }

func (r companyRepo) GetByID(_ context.Context, id int64) (out *entity.Company, err error) {
	err = r.s.with(func(t *tables) error {
		if c, ok := t.companies[id]; ok {
			out = ptr(c)
		}
		return nil
	})
	return out, err
}

// ── Users ──────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	return r.s.with(func(t *tables) error {
		if _, ok := t.companies[u.CompanyID]; !ok {
			return errForeignKey
		}
		for _, other := range t.users {
			if other.CompanyID == u.CompanyID && other.Email == u.Email {
				return domain.NewConflict(domain.MsgUserExists)
			}
		}
		u.ID = t.assign(0)
		stamp(&u.CreatedAt, &u.UpdatedAt)
		t.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) Delete(_ context.Context, id, companyID int64) error {
	return r.s.with(func(t *tables) error {
		if u, ok := t.users[id]; ok && u.CompanyID == companyID {
			delete(t.users, id)
			delete(t.userLocations, id)
		}
		return nil
	})
}

func (r userRepo) GetByID(_ context.Context, id int64) (out *entity.User, err error) {
	err = r.s.with(func(t *tables) error {
		if u, ok := t.users[id]; ok {
			out = ptr(u)
		}
		return nil
	})
	return out, err
}

func (r userRepo) GetByEmailAndCompany(_ context.Context, email string, companyID int64) (out *entity.User, err error) {
	err = r.s.with(func(t *tables) error {
		for _, id := range sortedIDs(t.users) {
			if u := t.users[id]; u.CompanyID == companyID && u.Email == email {
				out = ptr(u)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r userRepo) ListByCompany(_ context.Context, companyID int64) (out []*entity.User, err error) {
	err = r.s.with(func(t *tables) error {
		for _, id := range sortedIDs(t.users) {
			if u := t.users[id]; u.CompanyID == companyID {
				out = append(out, ptr(u))
			}
		}
		return nil
	})
	return out, err
}

func (r userRepo) ReplaceLocations(_ context.Context, userID int64, locationIDs []int64) error {
	return r.s.with(func(t *tables) error {
		if _, ok := t.users[userID]; !ok {
			return errForeignKey
		}
		for _, id := range locationIDs {
			if _, ok := t.locations[id]; !ok {
				return errForeignKey
			}
		}
		t.userLocations[userID] = slices.Clone(locationIDs)
		return nil
	})
}

func (r userRepo) ListLocationIDs(_ context.Context, userID int64) (out []int64, err error) {
	err = r.s.with(func(t *tables) error {
		out = slices.Clone(t.userLocations[userID])
		slices.Sort(out)
		return nil
	})
	return out, err
}

// ── Locations ──────────────────────────────────────────────────────────────────

type locationRepo struct{ s *Store }

func (r locationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.s.with(func(t *tables) error {
		if _, ok := t.companies[l.CompanyID]; !ok {
			return errForeignKey
		}
		l.ID = t.assign(0)
		stamp(&l.CreatedAt, &l.UpdatedAt)
		t.locations[l.ID] = *l
		return nil
	})
}

func (r locationRepo) GetByIDAndCompany(_ context.Context, id, companyID int64) (out *entity.Location, err error) {
	err = r.s.with(func(t *tables) error {
		if l, ok := t.locations[id]; ok && l.CompanyID == companyID {
			out = ptr(l)
		}
		return nil
	})
	return out, err
}

func (r locationRepo) ListByCompany(_ context.Context, companyID int64) (out []*entity.Location, err error) {
	err = r.s.with(func(t *tables) error {
		for _, id := range sortedIDs(t.locations) {
			if l := t.locations[id]; l.CompanyID == companyID {
				out = append(out, ptr(l))
			}
		}
		return nil
	})
	return out, err
}

// ── Product SKUs ───────────────────────────────────────────────────────────────

type skuRepo struct{ s *Store }

func (r skuRepo) Create(_ context.Context, p *entity.ProductSku) error {
	return r.s.with(func(t *tables) error {
		if _, ok := t.companies[p.CompanyID]; !ok {
			return errForeignKey
		}
		for _, other := range t.skus {
			if other.CompanyID != p.CompanyID {
				continue
			}
			if p.Barcode != "" && other.Barcode == p.Barcode {
				return domain.NewConflict(domain.MsgBarcodeTaken)
			}
			if other.Name == p.Name && entity.SameSupplier(other.SupplierID, p.SupplierID) {
				return domain.NewConflict(domain.MsgSkuNameSupplier)
			}
		}
		p.ID = t.assign(0)
		stamp(&p.CreatedAt, &p.UpdatedAt)
		t.skus[p.ID] = *p
		return nil
	})
}

func (r skuRepo) find(companyID int64, match func(entity.ProductSku) bool) (out *entity.ProductSku, err error) {
	err = r.s.with(func(t *tables) error {
		for _, id := range sortedIDs(t.skus) {
			if p := t.skus[id]; p.CompanyID == companyID && match(p) {
				out = ptr(p)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r skuRepo) GetByIDAndCompany(_ context.Context, id, companyID int64) (*entity.ProductSku, error) {
	return r.find(companyID, func(p entity.ProductSku) bool { return p.ID == id })
}

func (r skuRepo) GetByCompanyAndBarcode(_ context.Context, companyID int64, barcode string) (*entity.ProductSku, error) {
	if barcode == "" {
		return nil, nil
	}
	return r.find(companyID, func(p entity.ProductSku) bool { return p.Barcode == barcode })
}

func (r skuRepo) GetByNameAndSupplier(_ context.Context, companyID int64, name string, supplierID *int64) (*entity.ProductSku, error) {
	return r.find(companyID, func(p entity.ProductSku) bool {
		return p.Name == name && entity.SameSupplier(p.SupplierID, supplierID)
	})
}

func (r skuRepo) ListByCompany(_ context.Context, companyID int64) (out []*entity.ProductSku, err error) {
	err = r.s.with(func(t *tables) error {
		for _, id := range sortedIDs(t.skus) {
			if p := t.skus[id]; p.CompanyID == companyID {
				out = append(out, ptr(p))
			}
		}
		return nil
	})
	return out, err
}

// ── Product instances ──────────────────────────────────────────────────────────

type instanceRepo struct{ s *Store }

// ownedBy informa si la instancia pertenece a la empresa a través de su referencia.
func (t *tables) ownedBy(pi entity.ProductInstance, companyID int64) bool {
	sku, ok := t.skus[pi.ProductSkuID]
	return ok && sku.CompanyID == companyID
}

func (t *tables) checkInstanceRefs(pi *entity.ProductInstance) error {
	if _, ok := t.skus[pi.ProductSkuID]; !ok {
		return errForeignKey
	}
	if pi.LocationID != nil {
		if _, ok := t.locations[*pi.LocationID]; !ok {
			return errForeignKey
		}
	}
	if pi.StatusProductInstanceID != nil {
		if _, ok := t.statuses[*pi.StatusProductInstanceID]; !ok {
			return errForeignKey
		}
	}
	return nil
}

func (r instanceRepo) Create(_ context.Context, pi *entity.ProductInstance) error {
	return r.s.with(func(t *tables) error {
		if err := t.checkInstanceRefs(pi); err != nil {
			return err
		}
		if pi.EPC != "" {
			company := t.skus[pi.ProductSkuID].CompanyID
			for _, other := range t.instances {
				if other.EPC == pi.EPC && t.ownedBy(other, company) {
					return domain.NewConflict(domain.MsgEPCTaken)
				}
			}
		}
		pi.ID = t.assign(0)
		stamp(&pi.CreatedAt, &pi.UpdatedAt)
		t.instances[pi.ID] = *pi
		return nil
	})
}

func (r instanceRepo) GetByIDAndCompany(_ context.Context, id, companyID int64) (out *entity.ProductInstance, err error) {
	err = r.s.with(func(t *tables) error {
		if pi, ok := t.instances[id]; ok && t.ownedBy(pi, companyID) {
			out = ptr(pi)
		}
		return nil
	})
	return out, err
}

func (r instanceRepo) GetByCompanyAndEPC(_ context.Context, companyID int64, epc string) (out *entity.ProductInstance, err error) {
	if epc == "" {
		return nil, nil
	}
	err = r.s.with(func(t *tables) error {
		for _, id := range sortedIDs(t.instances) {
			if pi := t.instances[id]; pi.EPC == epc && t.ownedBy(pi, companyID) {
				out = ptr(pi)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r instanceRepo) ListByCompany(_ context.Context, companyID int64, locationID *int64) (out []*entity.ProductInstance, err error) {
	err = r.s.with(func(t *tables) error {
		for _, id := range sortedIDs(t.instances) {
			pi := t.instances[id]
			if !t.ownedBy(pi, companyID) {
				continue
			}
			if locationID != nil && (pi.LocationID == nil || *pi.LocationID != *locationID) {
				continue
			}
			out = append(out, ptr(pi))
		}
		return nil
	})
	return out, err
}

func (r instanceRepo) Update(_ context.Context, pi *entity.ProductInstance) error {
	return r.s.with(func(t *tables) error {
		if _, ok := t.instances[pi.ID]; !ok {
			return domain.ErrNotFound
		}
		if err := t.checkInstanceRefs(pi); err != nil {
			return err
		}
		pi.UpdatedAt = time.Now().UTC()
		t.instances[pi.ID] = *pi
		return nil
	})
}

// ── Statuses / type movements ──────────────────────────────────────────────────

type statusRepo struct{ s *Store }

func (r statusRepo) GetByID(_ context.Context, id int64) (out *entity.Status, err error) {
	err = r.s.with(func(t *tables) error {
		if st, ok := t.statuses[id]; ok {
			out = ptr(st)
		}
		return nil
	})
	return out, err
}

func (r statusRepo) GetByName(_ context.Context, name string) (out *entity.Status, err error) {
	err = r.s.with(func(t *tables) error {
		for _, id := range sortedIDs(t.statuses) {
			if st := t.statuses[id]; st.Name == name {
				out = ptr(st)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r statusRepo) List(_ context.Context) (out []*entity.Status, err error) {
	err = r.s.with(func(t *tables) error {
		for _, id := range sortedIDs(t.statuses) {
			out = append(out, ptr(t.statuses[id]))
		}
		return nil
	})
	return out, err
}

type typeMovementRepo struct{ s *Store }

func (r typeMovementRepo) Create(_ context.Context, tm *entity.TypeMovement) error {
	return r.s.with(func(t *tables) error {
		if _, ok := t.companies[tm.CompanyID]; !ok {
			return errForeignKey
		}
		for _, other := range t.typeMovements {
			if other.CompanyID == tm.CompanyID && other.Initials == tm.Initials {
				return domain.NewConflict(domain.MsgTypeMovementExists)
			}
		}
		tm.ID = t.assign(0)
		t.typeMovements[tm.ID] = *tm
		return nil
	})
}

func (r typeMovementRepo) GetByCompanyAndInitials(_ context.Context, companyID int64, initials string) (out *entity.TypeMovement, err error) {
	err = r.s.with(func(t *tables) error {
		for _, id := range sortedIDs(t.typeMovements) {
			if tm := t.typeMovements[id]; tm.CompanyID == companyID && tm.Initials == initials {
				out = ptr(tm)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r typeMovementRepo) ListByCompany(_ context.Context, companyID int64) (out []*entity.TypeMovement, err error) {
	err = r.s.with(func(t *tables) error {
		for _, id := range sortedIDs(t.typeMovements) {
			if tm := t.typeMovements[id]; tm.CompanyID == companyID {
				out = append(out, ptr(tm))
			}
		}
		return nil
	})
	return out, err
}

// ── Orders / movements ─────────────────────────────────────────────────────────

type orderRepo struct{ s *Store }

func (t *tables) orderOwnedBy(o entity.Order, companyID int64) bool {
	u, ok := t.users[o.UserID]
	return ok && u.CompanyID == companyID
}

func (r orderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.s.with(func(t *tables) error {
		if _, ok := t.users[o.UserID]; !ok {
			return errForeignKey
		}
		if _, ok := t.typeMovements[o.TypeMovementID]; !ok {
			return errForeignKey
		}
		if _, ok := t.statuses[o.StatusID]; !ok {
			return errForeignKey
		}
		o.ID = t.assign(0)
		if o.CreatedAt.IsZero() {
			o.CreatedAt = time.Now().UTC()
		}
		t.orders[o.ID] = *o
		return nil
	})
}

func (r orderRepo) GetByIDAndCompany(_ context.Context, id, companyID int64) (out *entity.Order, err error) {
	err = r.s.with(func(t *tables) error {
		if o, ok := t.orders[id]; ok && t.orderOwnedBy(o, companyID) {
			out = ptr(o)
		}
		return nil
	})
	return out, err
}

type movementRepo struct{ s *Store }

func (r movementRepo) Create(_ context.Context, m *entity.ProductMovement) error {
	return r.s.with(func(t *tables) error {
		if _, ok := t.orders[m.OrderID]; !ok {
			return errForeignKey
		}
		if _, ok := t.instances[m.ProductInstanceID]; !ok {
			return errForeignKey
		}
		if _, ok := t.statuses[m.StatusID]; !ok {
			return errForeignKey
		}
		m.ID = t.assign(0)
		if m.Date.IsZero() {
			m.Date = time.Now().UTC()
		}
		t.movements[m.ID] = *m
		return nil
	})
}

func (t *tables) movementOwnedBy(m entity.ProductMovement, companyID int64) bool {
	o, ok := t.orders[m.OrderID]
	return ok && t.orderOwnedBy(o, companyID)
}

func (r movementRepo) GetByIDAndCompany(_ context.Context, id, companyID int64) (out *entity.ProductMovement, err error) {
	err = r.s.with(func(t *tables) error {
		if m, ok := t.movements[id]; ok && t.movementOwnedBy(m, companyID) {
			out = ptr(m)
		}
		return nil
	})
	return out, err
}

func (r movementRepo) UpdateStatus(_ context.Context, m *entity.ProductMovement) error {
	return r.s.with(func(t *tables) error {
		cur, ok := t.movements[m.ID]
		if !ok {
			return domain.ErrMovementNotFound
		}
		if _, ok := t.statuses[m.StatusID]; !ok {
			return errForeignKey
		}
		cur.StatusID = m.StatusID
		if !m.Date.IsZero() {
			cur.Date = m.Date
		}
		t.movements[m.ID] = cur
		return nil
	})
}

func (t *tables) view(m entity.ProductMovement) repository.MovementView {
	return repository.MovementView{
		Movement:        m,
		Order:           t.orders[m.OrderID],
		ProductInstance: t.instances[m.ProductInstanceID],
		Status:          t.statuses[m.StatusID],
	}
}

func (r movementRepo) ListViewsByTypeAndStatus(_ context.Context, companyID int64, typeName, statusName string) (out []repository.MovementView, err error) {
	err = r.s.with(func(t *tables) error {
		for _, id := range sortedIDs(t.movements) {
			m := t.movements[id]
			if !t.movementOwnedBy(m, companyID) {
				continue
			}
			if t.typeMovements[t.orders[m.OrderID].TypeMovementID].Name != typeName {
				continue
			}
			if t.statuses[m.StatusID].Name != statusName {
				continue
			}
			out = append(out, t.view(m))
		}
		return nil
	})
	return out, err
}

func (r movementRepo) ListViewsByOrder(_ context.Context, orderID, companyID int64) (out []repository.MovementView, err error) {
	err = r.s.with(func(t *tables) error {
		for _, id := range sortedIDs(t.movements) {
			if m := t.movements[id]; m.OrderID == orderID && t.movementOwnedBy(m, companyID) {
				out = append(out, t.view(m))
			}
		}
		return nil
	})
	return out, err
}
