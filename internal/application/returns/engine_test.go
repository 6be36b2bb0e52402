package returns_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/returns"
	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/infrastructure/memory"
)

type fixture struct {
	resolver *tenancy.Resolver
	opener   *memory.Opener
	demo     memory.Demo
	other    memory.Demo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := memory.NewDirectory()
	opener := memory.NewOpener()
	demo, err := memory.SeedDemo(ctx, dir, opener, memory.DefaultDemoTenant())
	require.NoError(t, err)
	other, err := memory.SeedDemo(ctx, dir, opener, memory.DemoTenant{
		CompanyName: "Otra empresa",
		AdminEmail:  "ana@otra.com",
		UserEmail:   "beto@otra.com",
		DSN:         "mem://otra",
	})
	require.NoError(t, err)
	return &fixture{resolver: tenancy.NewResolver(dir, nil, opener, nil), opener: opener, demo: demo, other: other}
}

func (f *fixture) bind(t *testing.T, email string) *tenancy.Session {
	t.Helper()
	s, err := f.resolver.Bind(context.Background(), email)
	require.NoError(t, err)
	return s
}

func (f *fixture) counts() (int, int) {
	return f.opener.Database(entity.StoreLocation{}).Counts()
}

type fakeSlips struct {
	got returns.OrderSlip
}

func (f *fakeSlips) RenderOrderSlip(_ context.Context, slip returns.OrderSlip) ([]byte, error) {
	f.got = slip
	return []byte("%PDF-fake"), nil
}

func TestListReturns_EscenarioDemo(t *testing.T) {
	f := newFixture(t)
	uc := returns.NewOrderUseCase(nil, nil)
	sess := f.bind(t, "bobReturns@example.com")
	ctx := context.Background()

	completed, err := uc.ListReturns(ctx, sess, returns.FilterCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 2)
	assert.Equal(t, "Location 1", completed[0].Order.Destination)
	assert.Equal(t, "123456789", completed[0].ProductInstance.Serial)
	assert.Equal(t, entity.StatusCompleted, completed[0].Status.Name)
	serials := 0
	for _, l := range completed {
		if l.ProductInstance.Serial == "123456789" {
			serials++
		}
		assert.NotEqual(t, "901234211", l.ProductInstance.Serial)
	}
	assert.Equal(t, 1, serials)

	inProcess, err := uc.ListReturns(ctx, sess, returns.FilterInProcess)
	require.NoError(t, err)
	require.Len(t, inProcess, 1)
	assert.Equal(t, "901234211", inProcess[0].ProductInstance.Serial)
	assert.Equal(t, entity.StatusInProcess, inProcess[0].Status.Name)

	_, err = uc.ListReturns(ctx, sess, "todas")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListMovements_TipoDesconocido_ListaVacia(t *testing.T) {
	f := newFixture(t)
	uc := returns.NewOrderUseCase(nil, nil)
	sess := f.bind(t, "bobReturns@example.com")

	out, err := uc.ListMovements(context.Background(), sess, "Transfers", entity.StatusCompleted)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestCreateOrder_CreaUnaLineaPorInstancia(t *testing.T) {
	f := newFixture(t)
	uc := returns.NewOrderUseCase(nil, nil)
	sess := f.bind(t, "aliceReturn@example.com")

	order, err := uc.CreateOrder(context.Background(), sess, dto.CreateOrderRequest{
		TypeMovement:          "re",
		DestinationLocationID: f.demo.Locations[1].ID,
		InstanceIDs:           []int64{f.demo.Instances[1].ID, f.demo.Instances[0].ID, f.demo.Instances[1].ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Location 2", order.Destination)
	assert.Equal(t, f.demo.Admin.ID, order.UserID)
	assert.Equal(t, f.demo.InProcess.ID, order.StatusID)
	require.Len(t, order.Lines, 2)
	for _, l := range order.Lines {
		assert.Equal(t, entity.StatusInProcess, l.Status.Name)
		assert.Equal(t, order.ID, l.Order.ID)
	}

	inProcess, err := uc.ListReturns(context.Background(), sess, returns.FilterInProcess)
	require.NoError(t, err)
	assert.Len(t, inProcess, 3)
}

func TestCreateOrder_InstanciaDeOtraEmpresa_NoEscribeNada(t *testing.T) {
	f := newFixture(t)
	uc := returns.NewOrderUseCase(nil, nil)
	sess := f.bind(t, "aliceReturn@example.com")
	orders, movements := f.counts()

	_, err := uc.CreateOrder(context.Background(), sess, dto.CreateOrderRequest{
		TypeMovement:          entity.TypeMovementReturnsInitials,
		DestinationLocationID: f.demo.Locations[0].ID,
		InstanceIDs:           []int64{f.demo.Instances[0].ID, f.other.Instances[0].ID},
	})
	assert.ErrorIs(t, err, domain.ErrBadReference)

	o, m := f.counts()
	assert.Equal(t, orders, o)
	assert.Equal(t, movements, m)
}

func TestCreateOrder_ReferenciasInvalidas(t *testing.T) {
	f := newFixture(t)
	uc := returns.NewOrderUseCase(nil, nil)
	sess := f.bind(t, "aliceReturn@example.com")
	ctx := context.Background()

	_, err := uc.CreateOrder(ctx, sess, dto.CreateOrderRequest{TypeMovement: "RE", DestinationLocationID: f.demo.Locations[0].ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateOrder(ctx, sess, dto.CreateOrderRequest{
		TypeMovement: "TR", DestinationLocationID: f.demo.Locations[0].ID, InstanceIDs: []int64{f.demo.Instances[0].ID},
	})
	assert.Equal(t, domain.MsgTypeMovementUnknown, domain.Reason(err))

	_, err = uc.CreateOrder(ctx, sess, dto.CreateOrderRequest{
		TypeMovement: "RE", DestinationLocationID: f.other.Locations[0].ID, InstanceIDs: []int64{f.demo.Instances[0].ID},
	})
	assert.Equal(t, domain.MsgLocationNotFound, domain.Reason(err))

	missing := int64(9999)
	_, err = uc.CreateOrder(ctx, sess, dto.CreateOrderRequest{
		TypeMovement: "RE", DestinationLocationID: f.demo.Locations[0].ID, InstanceIDs: []int64{f.demo.Instances[0].ID}, StatusID: &missing,
	})
	assert.Equal(t, domain.MsgStatusNotFound, domain.Reason(err))
}

func TestGetOrder(t *testing.T) {
	f := newFixture(t)
	uc := returns.NewOrderUseCase(nil, nil)
	ctx := context.Background()

	order, err := uc.GetOrder(ctx, f.bind(t, "bobReturns@example.com"), f.demo.Order.ID)
	require.NoError(t, err)
	assert.Len(t, order.Lines, 3)

	// La orden de la empresa demo no existe para otra empresa.
	_, err = uc.GetOrder(ctx, f.bind(t, "ana@otra.com"), f.demo.Order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateMovementStatus_ActualizacionParcial(t *testing.T) {
	f := newFixture(t)
	uc := returns.NewOrderUseCase(nil, nil)
	sess := f.bind(t, "bobReturns@example.com")
	ctx := context.Background()

	obs := "Caja abierta"
	msg, err := uc.UpdateMovementStatus(ctx, sess, f.demo.Movements[2].ID, dto.UpdateMovementRequest{
		Observation: &obs,
		StatusID:    &f.demo.Completed.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MsgMovementUpdated, msg.Message)

	completed, err := uc.ListReturns(ctx, sess, returns.FilterCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 3)
	line := completed[2]
	assert.Equal(t, f.demo.Movements[2].ID, line.ID)
	assert.Equal(t, "Caja abierta", line.ProductInstance.Observation)
	assert.Equal(t, "901234211", line.ProductInstance.Serial, "los campos nulos no cambian")
	assert.Equal(t, "32234444", line.ProductInstance.LegacyCode)
	assert.False(t, line.Date.IsZero())

	// El estado de la orden no cambia con sus líneas.
	order, err := uc.GetOrder(ctx, sess, f.demo.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, f.demo.Completed.ID, order.StatusID)
}

func TestUpdateMovementStatus_NoEncontrado_SinCambios(t *testing.T) {
	f := newFixture(t)
	uc := returns.NewOrderUseCase(nil, nil)
	sess := f.bind(t, "bobReturns@example.com")
	ctx := context.Background()

	serial := "nuevo"
	_, err := uc.UpdateMovementStatus(ctx, sess, 9999, dto.UpdateMovementRequest{Serial: &serial})
	assert.ErrorIs(t, err, domain.ErrMovementNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Una línea de otra empresa tampoco es visible.
	_, err = uc.UpdateMovementStatus(ctx, f.bind(t, "ana@otra.com"), f.demo.Movements[0].ID, dto.UpdateMovementRequest{Serial: &serial})
	assert.ErrorIs(t, err, domain.ErrMovementNotFound)

	completed, err := uc.ListReturns(ctx, sess, returns.FilterCompleted)
	require.NoError(t, err)
	assert.Equal(t, "123456789", completed[0].ProductInstance.Serial)
}

func TestUpdateMovementStatus_EstadoInexistente_Rollback(t *testing.T) {
	f := newFixture(t)
	uc := returns.NewOrderUseCase(nil, nil)
	sess := f.bind(t, "bobReturns@example.com")
	ctx := context.Background()

	serial, missing := "cambiado", int64(9999)
	_, err := uc.UpdateMovementStatus(ctx, sess, f.demo.Movements[0].ID, dto.UpdateMovementRequest{Serial: &serial, StatusID: &missing})
	assert.ErrorIs(t, err, domain.ErrBadReference)

	completed, err := uc.ListReturns(ctx, sess, returns.FilterCompleted)
	require.NoError(t, err)
	assert.Equal(t, "123456789", completed[0].ProductInstance.Serial)
}

func TestTenantsAislados(t *testing.T) {
	f := newFixture(t)
	uc := returns.NewOrderUseCase(nil, nil)
	ctx := context.Background()

	demo, err := uc.ListReturns(ctx, f.bind(t, "aliceReturn@example.com"), returns.FilterCompleted)
	require.NoError(t, err)
	other, err := uc.ListReturns(ctx, f.bind(t, "ana@otra.com"), returns.FilterCompleted)
	require.NoError(t, err)

	require.Len(t, demo, 2)
	require.Len(t, other, 2)
	assert.NotEqual(t, demo[0].ID, other[0].ID)
	assert.Equal(t, f.other.Order.ID, other[0].Order.ID)
}

// newIsolatedFixture dos empresas en almacenes separados con secuencias de ids propias.
func newIsolatedFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := memory.NewDirectory()
	opener := memory.NewIsolatedOpener()
	demo, err := memory.SeedDemo(ctx, dir, opener, memory.DemoTenant{
		CompanyID:   1,
		CompanyName: "Example Company returns",
		AdminEmail:  "aliceReturn@example.com",
		UserEmail:   "bobReturns@example.com",
		DSN:         "mem://a",
	})
	require.NoError(t, err)
	other, err := memory.SeedDemo(ctx, dir, opener, memory.DemoTenant{
		CompanyID:   2,
		CompanyName: "Otra empresa",
		AdminEmail:  "ana@otra.com",
		UserEmail:   "beto@otra.com",
		DSN:         "mem://b",
	})
	require.NoError(t, err)
	return &fixture{resolver: tenancy.NewResolver(dir, nil, opener, nil), opener: opener, demo: demo, other: other}
}

func lineByID(t *testing.T, uc *returns.OrderUseCase, sess *tenancy.Session, id int64) *dto.MovementResponse {
	t.Helper()
	for _, filter := range []string{returns.FilterCompleted, returns.FilterInProcess} {
		lines, err := uc.ListReturns(context.Background(), sess, filter)
		require.NoError(t, err)
		for i := range lines {
			if lines[i].ID == id {
				return &lines[i]
			}
		}
	}
	return nil
}

func TestUpdateMovementStatus_IdsRepetidosEntreAlmacenes(t *testing.T) {
	f := newIsolatedFixture(t)
	uc := returns.NewOrderUseCase(nil, nil)
	ctx := context.Background()
	a := f.bind(t, "aliceReturn@example.com")
	b := f.bind(t, "ana@otra.com")

	otherIDs := map[int64]bool{}
	for _, m := range f.other.Movements {
		otherIDs[m.ID] = true
	}
	var shared, onlyA int64
	for _, m := range f.demo.Movements {
		if otherIDs[m.ID] {
			shared = m.ID
		} else {
			onlyA = m.ID
		}
	}
	require.NotZero(t, shared, "los almacenes deben repetir ids de línea")
	require.NotZero(t, onlyA)

	serial := "desde-b"
	_, err := uc.UpdateMovementStatus(ctx, b, onlyA, dto.UpdateMovementRequest{Serial: &serial})
	assert.ErrorIs(t, err, domain.ErrMovementNotFound)

	before := lineByID(t, uc, a, shared)
	require.NotNil(t, before)
	_, err = uc.UpdateMovementStatus(ctx, b, shared, dto.UpdateMovementRequest{Serial: &serial})
	require.NoError(t, err)

	// Solo cambia la línea de la empresa de la sesión.
	gotB := lineByID(t, uc, b, shared)
	require.NotNil(t, gotB)
	assert.Equal(t, "desde-b", gotB.ProductInstance.Serial)

	gotA := lineByID(t, uc, a, shared)
	require.NotNil(t, gotA)
	assert.Equal(t, before.ProductInstance.Serial, gotA.ProductInstance.Serial)
	assert.Equal(t, before.Date, gotA.Date)
	gotOnlyA := lineByID(t, uc, a, onlyA)
	require.NotNil(t, gotOnlyA)
	assert.NotEqual(t, "desde-b", gotOnlyA.ProductInstance.Serial)
}

func TestRenderOrderSlip(t *testing.T) {
	f := newFixture(t)
	slips := &fakeSlips{}
	uc := returns.NewOrderUseCase(slips, nil)
	sess := f.bind(t, "bobReturns@example.com")

	out, err := uc.RenderOrderSlip(context.Background(), sess, f.demo.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))

	assert.Equal(t, "Example Company returns", slips.got.Company.Name)
	assert.Equal(t, entity.TypeMovementReturns, slips.got.TypeMovement.Name)
	assert.Equal(t, "Alice", slips.got.CreatedBy)
	require.Len(t, slips.got.Lines, 3)
	assert.Equal(t, "Product AAA", slips.got.Lines[0].SkuName)
	assert.Equal(t, "Product BAA", slips.got.Lines[1].SkuName)
	assert.Equal(t, entity.StatusInProcess, slips.got.Lines[2].Status)

	_, err = uc.RenderOrderSlip(context.Background(), sess, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
