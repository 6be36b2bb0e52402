package returns

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
	"github.com/jhoicas/Retail-api/pkg/logger"
)

// Filtros de devoluciones aceptados por ListReturns.
const (
	FilterCompleted = "completed"
	FilterInProcess = "inprocess"
)

var returnFilters = map[string]string{
	FilterCompleted: entity.StatusCompleted,
	FilterInProcess: entity.StatusInProcess,
}

// OrderUseCase motor de órdenes: crea órdenes con sus líneas, actualiza líneas y proyecta lecturas.
// Todas las operaciones trabajan sobre el almacén de la sesión y filtran por su empresa.
type OrderUseCase struct {
	slips SlipRenderer
	log   *logger.Logger
	now   func() time.Time
}

// NewOrderUseCase construye el motor. slips puede ser nil si no se generan hojas de despacho.
func NewOrderUseCase(slips SlipRenderer, log *logger.Logger) *OrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{slips: slips, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// CreateOrder crea la orden y una línea por instancia en una sola transacción.
// Cualquier referencia fuera de la empresa deja el almacén sin cambios.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, sess *tenancy.Session, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	ids := slices.Clone(in.InstanceIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var orderID int64
	err := sess.Store.RunInTx(ctx, func(tx repository.Store) error {
		initials := strings.ToUpper(strings.TrimSpace(in.TypeMovement))
		tm, err := tx.TypeMovements().GetByCompanyAndInitials(ctx, sess.CompanyID, initials)
		if err != nil {
			return err
		}
		if tm == nil {
			return domain.NewBadReference(domain.MsgTypeMovementUnknown)
		}
		loc, err := tx.Locations().GetByIDAndCompany(ctx, in.DestinationLocationID, sess.CompanyID)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.NewBadReference(domain.MsgLocationNotFound)
		}
		status, err := initialStatus(ctx, tx, in.StatusID)
		if err != nil {
			return err
		}

		order := &entity.Order{
			UserID:         sess.UserID,
			TypeMovementID: tm.ID,
			StatusID:       status.ID,
			Destination:    loc.Name,
			CreatedAt:      uc.now(),
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		for _, id := range ids {
			pi, err := tx.ProductInstances().GetByIDAndCompany(ctx, id, sess.CompanyID)
			if err != nil {
				return err
			}
			if pi == nil {
				return domain.NewBadReference(fmt.Sprintf("%s: %d", domain.MsgInstanceNotFound, id))
			}
			mv := &entity.ProductMovement{
				OrderID:           order.ID,
				ProductInstanceID: pi.ID,
				StatusID:          status.ID,
				Date:              order.CreatedAt,
			}
			if err := tx.ProductMovements().Create(ctx, mv); err != nil {
				return err
			}
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("company_id", sess.CompanyID).
		Int64("order_id", orderID).
		Int("lines", len(ids)).
		Msg("orden creada")
	return uc.GetOrder(ctx, sess, orderID)
}

// initialStatus estado explícito o, por defecto, la fila "En proceso".
func initialStatus(ctx context.Context, store repository.Store, id *int64) (*entity.Status, error) {
	var (
		st  *entity.Status
		err error
	)
	if id != nil {
		st, err = store.Statuses().GetByID(ctx, *id)
	} else {
		st, err = store.Statuses().GetByName(ctx, entity.StatusInProcess)
	}
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.NewBadReference(domain.MsgStatusNotFound)
	}
	return st, nil
}

// GetOrder devuelve la orden con sus líneas o ErrNotFound.
func (uc *OrderUseCase) GetOrder(ctx context.Context, sess *tenancy.Session, id int64) (*dto.OrderResponse, error) {
	order, err := sess.Store.Orders().GetByIDAndCompany(ctx, id, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	views, err := sess.Store.ProductMovements().ListViewsByOrder(ctx, id, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	return &dto.OrderResponse{
		OrderSummary: dto.ToOrderSummary(order),
		Lines:        dto.ToMovementResponses(views),
	}, nil
}

// ListMovements proyecta las líneas de la empresa cuyo tipo de orden y estado coinciden por nombre.
func (uc *OrderUseCase) ListMovements(ctx context.Context, sess *tenancy.Session, typeName, statusName string) ([]dto.MovementResponse, error) {
	views, err := sess.Store.ProductMovements().ListViewsByTypeAndStatus(ctx, sess.CompanyID, typeName, statusName)
	if err != nil {
		return nil, err
	}
	return dto.ToMovementResponses(views), nil
}

// ListReturns líneas de devolución filtradas por "completed" o "inprocess".
func (uc *OrderUseCase) ListReturns(ctx context.Context, sess *tenancy.Session, filter string) ([]dto.MovementResponse, error) {
	statusName, ok := returnFilters[filter]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	return uc.ListMovements(ctx, sess, entity.TypeMovementReturns, statusName)
}

// UpdateMovementStatus aplica una actualización parcial a la línea y a su instancia en una transacción.
// Los campos nulos no cambian; la fecha de la línea se sella siempre.
func (uc *OrderUseCase) UpdateMovementStatus(ctx context.Context, sess *tenancy.Session, id int64, in dto.UpdateMovementRequest) (*dto.MessageResponse, error) {
	err := sess.Store.RunInTx(ctx, func(tx repository.Store) error {
		mv, err := tx.ProductMovements().GetByIDAndCompany(ctx, id, sess.CompanyID)
		if err != nil {
			return err
		}
		if mv == nil {
			return domain.ErrMovementNotFound
		}
		pi, err := tx.ProductInstances().GetByIDAndCompany(ctx, mv.ProductInstanceID, sess.CompanyID)
		if err != nil {
			return err
		}
		if pi == nil {
			return domain.ErrMovementNotFound
		}

		setIf(&pi.Description, in.Description)
		setIf(&pi.Observation, in.Observation)
		setIf(&pi.Serial, in.Serial)
		setIf(&pi.LegacyCode, in.LegacyCode)
		setIf(&pi.Position, in.Position)
		if in.InstanceStatusID != nil {
			if _, err := initialStatus(ctx, tx, in.InstanceStatusID); err != nil {
				return err
			}
			pi.StatusProductInstanceID = ptr(*in.InstanceStatusID)
		}
		if err := tx.ProductInstances().Update(ctx, pi); err != nil {
			return err
		}

		if in.StatusID != nil {
			if _, err := initialStatus(ctx, tx, in.StatusID); err != nil {
				return err
			}
			mv.StatusID = *in.StatusID
		}
		mv.Date = uc.now()
		return tx.ProductMovements().UpdateStatus(ctx, mv)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("company_id", sess.CompanyID).Int64("movement_id", id).Msg("línea de orden actualizada")
	return &dto.MessageResponse{Message: domain.MsgMovementUpdated}, nil
}

// RenderOrderSlip genera el PDF de la hoja de despacho de la orden.
func (uc *OrderUseCase) RenderOrderSlip(ctx context.Context, sess *tenancy.Session, orderID int64) ([]byte, error) {
	if uc.slips == nil {
		return nil, fmt.Errorf("hoja de despacho no configurada")
	}
	store := sess.Store
	order, err := store.Orders().GetByIDAndCompany(ctx, orderID, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	slip := OrderSlip{Order: *order}

	company, err := store.Companies().GetByID(ctx, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	if company != nil {
		slip.Company = *company
	}
	tms, err := store.TypeMovements().ListByCompany(ctx, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	if i := slices.IndexFunc(tms, func(tm *entity.TypeMovement) bool { return tm.ID == order.TypeMovementID }); i >= 0 {
		slip.TypeMovement = *tms[i]
	}
	if st, err := store.Statuses().GetByID(ctx, order.StatusID); err != nil {
		return nil, err
	} else if st != nil {
		slip.Status = *st
	}
	if u, err := store.Users().GetByID(ctx, order.UserID); err != nil {
		return nil, err
	} else if u != nil {
		slip.CreatedBy = u.Name
	}

	views, err := store.ProductMovements().ListViewsByOrder(ctx, orderID, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	skuNames := map[int64]string{}
	for _, v := range views {
		name, ok := skuNames[v.ProductInstance.ProductSkuID]
		if !ok {
			sku, err := store.ProductSkus().GetByIDAndCompany(ctx, v.ProductInstance.ProductSkuID, sess.CompanyID)
			if err != nil {
				return nil, err
			}
			if sku != nil {
				name = sku.Name
			}
			skuNames[v.ProductInstance.ProductSkuID] = name
		}
		slip.Lines = append(slip.Lines, SlipLine{
			SkuName:    name,
			Serial:     v.ProductInstance.Serial,
			EPC:        v.ProductInstance.EPC,
			LegacyCode: v.ProductInstance.LegacyCode,
			Status:     v.Status.Name,
		})
	}
	return uc.slips.RenderOrderSlip(ctx, slip)
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func ptr[T any](v T) *T { return &v }
