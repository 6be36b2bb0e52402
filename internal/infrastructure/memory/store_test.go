package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
	"github.com/jhoicas/Retail-api/internal/infrastructure/memory"
)

func seed(t *testing.T) (*memory.Opener, memory.Demo) {
	t.Helper()
	opener := memory.NewOpener()
	demo, err := memory.SeedDemo(context.Background(), memory.NewDirectory(), opener, memory.DefaultDemoTenant())
	require.NoError(t, err)
	return opener, demo
}

func TestRunInTx_ErrorDescartaCambios(t *testing.T) {
	ctx := context.Background()
	opener, demo := seed(t)
	db := opener.Database(entity.StoreLocation{})
	ordersBefore, movementsBefore := db.Counts()

	boom := errors.New("boom")
	err := db.Store().RunInTx(ctx, func(tx repository.Store) error {
		o := &entity.Order{UserID: demo.Admin.ID, TypeMovementID: demo.Returns.ID, StatusID: demo.InProcess.ID}
		require.NoError(t, tx.Orders().Create(ctx, o))
		require.NoError(t, tx.ProductMovements().Create(ctx, &entity.ProductMovement{OrderID: o.ID, ProductInstanceID: demo.Instances[0].ID, StatusID: demo.InProcess.ID}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	ordersAfter, movementsAfter := db.Counts()
	assert.Equal(t, ordersBefore, ordersAfter)
	assert.Equal(t, movementsBefore, movementsAfter)
}

func TestRunInTx_CommitPublica(t *testing.T) {
	ctx := context.Background()
	opener, demo := seed(t)
	db := opener.Database(entity.StoreLocation{})

	var orderID int64
	err := db.Store().RunInTx(ctx, func(tx repository.Store) error {
		o := &entity.Order{UserID: demo.Admin.ID, TypeMovementID: demo.Returns.ID, StatusID: demo.InProcess.ID}
		if err := tx.Orders().Create(ctx, o); err != nil {
			return err
		}
		orderID = o.ID
		return nil
	})
	require.NoError(t, err)

	got, err := db.Store().Orders().GetByIDAndCompany(ctx, orderID, demo.Company.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRunInTx_EscrituraConcurrenteNoSePierde(t *testing.T) {
	ctx := context.Background()
	opener, demo := seed(t)
	db := opener.Database(entity.StoreLocation{})
	store := db.Store()

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := store.RunInTx(ctx, func(tx repository.Store) error {
			close(started)
			<-release
			return tx.Orders().Create(ctx, &entity.Order{UserID: demo.Admin.ID, TypeMovementID: demo.Returns.ID, StatusID: demo.InProcess.ID})
		})
		assert.NoError(t, err)
	}()
	<-started

	sku := &entity.ProductSku{CompanyID: demo.Company.ID, Name: "Concurrente", Barcode: "555", Price: decimal.Zero}
	created := make(chan error, 1)
	go func() { created <- store.ProductSkus().Create(ctx, sku) }()

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	require.NoError(t, <-created)

	got, err := store.ProductSkus().GetByIDAndCompany(ctx, sku.ID, demo.Company.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "la referencia confirmada debe sobrevivir al commit de la transacción")
	assert.Equal(t, "Concurrente", got.Name)

	orders, _ := db.Counts()
	assert.Equal(t, 2, orders)
}

func TestDirectory_RegisterTenant_NoCambiaDeAlmacen(t *testing.T) {
	dir := memory.NewDirectory()
	require.NoError(t, dir.RegisterTenant(7, "mem://a"))
	require.NoError(t, dir.RegisterTenant(7, "mem://a"))

	err := dir.RegisterTenant(7, "mem://b")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.MsgTenantStoreTaken, domain.Reason(err))
}

func TestDirectory_RegisterUser_EmailDeOtraEmpresa(t *testing.T) {
	ctx := context.Background()
	dir := memory.NewDirectory()
	require.NoError(t, dir.RegisterTenant(1, ""))
	require.NoError(t, dir.RegisterTenant(2, "mem://b"))
	require.NoError(t, dir.RegisterUser(ctx, entity.TenantBinding{Email: "x@y.com", UserID: 10, CompanyID: 1, Role: entity.RoleUser}))

	// Misma empresa: actualiza rol.
	require.NoError(t, dir.RegisterUser(ctx, entity.TenantBinding{Email: "X@y.com", UserID: 10, CompanyID: 1, Role: entity.RoleAdmin}))
	b, err := dir.ResolveStore(ctx, "x@y.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, b.Role)

	err = dir.RegisterUser(ctx, entity.TenantBinding{Email: "x@y.com", UserID: 20, CompanyID: 2, Role: entity.RoleUser})
	assert.ErrorIs(t, err, domain.ErrConflict)
	b, err = dir.ResolveStore(ctx, "x@y.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.CompanyID)
	assert.Equal(t, int64(10), b.UserID)
}

func TestIsolatedOpener_IdsSeRepitenEntreAlmacenes(t *testing.T) {
	opener := memory.NewIsolatedOpener()
	a := opener.Database(entity.StoreLocation{DSN: "mem://a"})
	b := opener.Database(entity.StoreLocation{DSN: "mem://b"})

	ca := a.PutCompany(entity.Company{Name: "A"})
	cb := b.PutCompany(entity.Company{Name: "B"})
	assert.Equal(t, ca.ID, cb.ID)
}

func TestListViewsByTypeAndStatus(t *testing.T) {
	ctx := context.Background()
	opener, demo := seed(t)
	movements := opener.Database(entity.StoreLocation{}).Store().ProductMovements()

	completed, err := movements.ListViewsByTypeAndStatus(ctx, demo.Company.ID, entity.TypeMovementReturns, entity.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 2)
	assert.Equal(t, "Location 1", completed[0].Order.Destination)
	assert.Equal(t, "123456789", completed[0].ProductInstance.Serial)
	assert.Equal(t, "987654321", completed[1].ProductInstance.Serial)

	inProcess, err := movements.ListViewsByTypeAndStatus(ctx, demo.Company.ID, entity.TypeMovementReturns, entity.StatusInProcess)
	require.NoError(t, err)
	require.Len(t, inProcess, 1)
	assert.Equal(t, "901234211", inProcess[0].ProductInstance.Serial)
	assert.Equal(t, entity.StatusInProcess, inProcess[0].Status.Name)

	other, err := movements.ListViewsByTypeAndStatus(ctx, demo.Company.ID+1000, entity.TypeMovementReturns, entity.StatusCompleted)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAlcanceEmpresa_AlmacenCompartido(t *testing.T) {
	ctx := context.Background()
	opener := memory.NewOpener()
	dir := memory.NewDirectory()
	t1, err := memory.SeedDemo(ctx, dir, opener, memory.DefaultDemoTenant())
	require.NoError(t, err)
	t2, err := memory.SeedDemo(ctx, dir, opener, memory.DemoTenant{CompanyName: "Otra", AdminEmail: "ana@otra.com", UserEmail: "beto@otra.com"})
	require.NoError(t, err)

	store := opener.Database(entity.StoreLocation{}).Store()

	// Los estados son globales: la segunda empresa reutiliza las mismas filas.
	assert.Equal(t, t1.Completed.ID, t2.Completed.ID)

	got, err := store.ProductInstances().GetByIDAndCompany(ctx, t1.Instances[0].ID, t2.Company.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	mv, err := store.ProductMovements().GetByIDAndCompany(ctx, t1.Movements[0].ID, t2.Company.ID)
	require.NoError(t, err)
	assert.Nil(t, mv)

	skus, err := store.ProductSkus().ListByCompany(ctx, t2.Company.ID)
	require.NoError(t, err)
	require.Len(t, skus, 2)
	for _, s := range skus {
		assert.Equal(t, t2.Company.ID, s.CompanyID)
	}
}

func TestSkuCreate_UnicidadComoRespaldo(t *testing.T) {
	ctx := context.Background()
	opener, demo := seed(t)
	skus := opener.Database(entity.StoreLocation{}).Store().ProductSkus()

	err := skus.Create(ctx, &entity.ProductSku{CompanyID: demo.Company.ID, Name: "Nuevo", Barcode: "123456789", Price: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.MsgBarcodeTaken, domain.Reason(err))

	err = skus.Create(ctx, &entity.ProductSku{CompanyID: demo.Company.ID, Name: "Product AAA", Price: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.MsgSkuNameSupplier, domain.Reason(err))

	supplier := int64(7)
	err = skus.Create(ctx, &entity.ProductSku{CompanyID: demo.Company.ID, Name: "Product AAA", SupplierID: &supplier, Price: decimal.Zero})
	assert.NoError(t, err)
}

func TestOpener_AlmacenesSeparadosPorDSN(t *testing.T) {
	ctx := context.Background()
	opener := memory.NewOpener()
	a := opener.Database(entity.StoreLocation{DSN: "mem://a"})
	b := opener.Database(entity.StoreLocation{DSN: "mem://b"})
	assert.NotSame(t, a, b)
	assert.Same(t, a, opener.Database(entity.StoreLocation{DSN: "mem://a"}))

	c := a.PutCompany(entity.Company{Name: "A"})
	got, err := b.Store().Companies().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBindingCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c := memory.NewBindingCache(0)

	got, err := c.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, entity.TenantBinding{Email: "a@b.com", CompanyID: 3}))
	got, err = c.Get(ctx, "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.CompanyID)

	require.NoError(t, c.Invalidate(ctx, "a@b.com"))
	got, err = c.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}
