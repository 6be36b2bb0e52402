package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/returns"
	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/application/usecase"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/infrastructure/memory"
	"github.com/jhoicas/Retail-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Retail-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Retail-api/pkg/jwt"
	"github.com/jhoicas/Retail-api/pkg/logger"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "retail-test"
)

type testEnv struct {
	resolver *tenancy.Resolver
	demo     memory.Demo
	other    memory.Demo
	app      *fiber.App
}

// newTestEnv dos empresas en memoria (demo en el almacén compartido, "Otra empresa" en uno propio)
// y la API completa montada sobre ellas.
func newTestEnv(t *testing.T) *testEnv {
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

	log := logger.Nop()
	resolver := tenancy.NewResolver(dir, memory.NewBindingCache(0), opener, log)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		Sessions:   resolver,
		CompanyUC:  usecase.NewCompanyUseCase(),
		UserUC:     usecase.NewUserUseCase(resolver, log),
		ProductUC:  usecase.NewProductUseCase(log),
		LocationUC: usecase.NewLocationUseCase(),
		InstanceUC: usecase.NewInstanceUseCase(),
		LookupUC:   usecase.NewLookupUseCase(),
		OrderUC:    returns.NewOrderUseCase(pdf.NewMarotoSlipRenderer(), log),
		JWTSecret:  testJWTSecret,
	})
	return &testEnv{resolver: resolver, demo: demo, other: other, app: app}
}

func bearer(t *testing.T, email string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, email, testIssuer, 60)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (e *testEnv) do(t *testing.T, method, path, email string, body interface{}) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, email))
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestReturnsCompleted(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/returns/completed", "bobReturns@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	lines := decode[[]dto.MovementResponse](t, resp)
	require.Len(t, lines, 2)
	assert.Equal(t, "Location 1", lines[0].Order.Destination)
	assert.Equal(t, "123456789", lines[0].ProductInstance.Serial)
}

func TestReturnsInProcess(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/returns/in-process", "bobReturns@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	lines := decode[[]dto.MovementResponse](t, resp)
	require.Len(t, lines, 1)
	assert.Equal(t, "Location 1", lines[0].Order.Destination)
	assert.Equal(t, "901234211", lines[0].ProductInstance.Serial)
	assert.Equal(t, "En proceso", lines[0].Status.Name)
}

func TestReturns_FiltroPorQuery(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/returns?status=inprocess", "bobReturns@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.MovementResponse](t, resp), 1)

	resp = env.do(t, http.MethodGet, "/api/returns?status=todas", "bobReturns@example.com", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateMovement(t *testing.T) {
	env := newTestEnv(t)
	obs := "Revisado"
	path := fmt.Sprintf("/api/movements/%d", env.demo.Movements[2].ID)

	resp := env.do(t, http.MethodPut, path, "bobReturns@example.com", dto.UpdateMovementRequest{
		Observation: &obs,
		StatusID:    &env.demo.Completed.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.MsgMovementUpdated, decode[dto.MessageResponse](t, resp).Message)

	resp = env.do(t, http.MethodGet, "/api/returns/completed", "bobReturns@example.com", nil)
	lines := decode[[]dto.MovementResponse](t, resp)
	require.Len(t, lines, 3)
	assert.Equal(t, "Revisado", lines[2].ProductInstance.Observation)
}

func TestUpdateMovement_NoEncontrado_Retorna404(t *testing.T) {
	env := newTestEnv(t)
	serial := "x"
	resp := env.do(t, http.MethodPut, "/api/movements/9999", "bobReturns@example.com", dto.UpdateMovementRequest{Serial: &serial})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, domain.MsgMovementNotFound, decode[dto.ErrorResponse](t, resp).Message)

	// La línea de otra empresa tampoco existe para este tenant.
	resp = env.do(t, http.MethodPut, fmt.Sprintf("/api/movements/%d", env.demo.Movements[0].ID), "ana@otra.com", dto.UpdateMovementRequest{Serial: &serial})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateMovement_IDInvalido_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPut, "/api/movements/abc", "bobReturns@example.com", dto.UpdateMovementRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateProduct_CodigoDeBarrasDuplicado_Retorna409(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/products", "bobReturns@example.com", map[string]interface{}{
		"name":    "Producto nuevo",
		"barcode": "123456789",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, domain.MsgBarcodeTaken, decode[dto.ErrorResponse](t, resp).Message)

	// Otra empresa puede usar el mismo código de barras.
	resp = env.do(t, http.MethodPost, "/api/products", "ana@otra.com", map[string]interface{}{
		"name":    "Producto nuevo",
		"barcode": "555",
		"price":   "12.50",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.CreateProductResponse](t, resp)
	assert.Equal(t, domain.MsgSkuCreated, created.Message)
	assert.Equal(t, "12.5", created.Product.Price.String())
}

func TestCreateProduct_SinNombre_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/products", "bobReturns@example.com", map[string]interface{}{"barcode": "1"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[dto.ErrorResponse](t, resp).Message, "name")
}

func TestCreateProduct_PrecioNegativo_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/products", "bobReturns@example.com", map[string]interface{}{
		"name":  "Producto nuevo",
		"price": "-0.01",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Message, "price")
}

func TestCreateUser_SoloAdmin(t *testing.T) {
	env := newTestEnv(t)
	in := dto.CreateUserRequest{Email: "carol@example.com", Name: "Carol", Role: "user"}

	resp := env.do(t, http.MethodPost, "/api/users", "bobReturns@example.com", in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/users", "aliceReturn@example.com", in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// El nuevo usuario ya puede llamar a la API de su empresa.
	resp = env.do(t, http.MethodGet, "/api/company", "carol@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, env.demo.Company.ID, decode[dto.CompanyResponse](t, resp).ID)
}

func TestCreateUser_EmpresaAjena_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/users", "aliceReturn@example.com", dto.CreateUserRequest{
		CompanyID: env.other.Company.ID,
		Email:     "carol@example.com",
		Name:      "Carol",
		Role:      "user",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MsgCompanyNotFound, decode[dto.ErrorResponse](t, resp).Message)
}

func TestListas_AisladasPorEmpresa(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/users", "/api/products", "/api/locations", "/api/product-instances", "/api/type-movements"} {
		demo := decode[dto.ListResponse[json.RawMessage]](t, env.do(t, http.MethodGet, path, "aliceReturn@example.com", nil))
		other := decode[dto.ListResponse[json.RawMessage]](t, env.do(t, http.MethodGet, path, "ana@otra.com", nil))
		assert.Equal(t, demo.Total, other.Total, path)
		assert.NotEqual(t, demo.Items, other.Items, path)
	}
}

func TestListInstances_PorUbicacion(t *testing.T) {
	env := newTestEnv(t)
	path := fmt.Sprintf("/api/product-instances?location_id=%d", env.demo.Locations[1].ID)
	out := decode[dto.ListResponse[dto.InstanceResponse]](t, env.do(t, http.MethodGet, path, "bobReturns@example.com", nil))
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "987654321", out.Items[0].Serial)
}

func TestCreateOrder_YHojaDeDespacho(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/orders", "aliceReturn@example.com", dto.CreateOrderRequest{
		TypeMovement:          "RE",
		DestinationLocationID: env.demo.Locations[1].ID,
		InstanceIDs:           []int64{env.demo.Instances[2].ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decode[dto.OrderResponse](t, resp)
	assert.Equal(t, "Location 2", order.Destination)
	require.Len(t, order.Lines, 1)

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), "aliceReturn@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%d/slip", order.ID), "aliceReturn@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), "ana@otra.com", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateOrder_InstanciaAjena_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/orders", "aliceReturn@example.com", dto.CreateOrderRequest{
		TypeMovement:          "RE",
		DestinationLocationID: env.demo.Locations[0].ID,
		InstanceIDs:           []int64{env.other.Instances[0].ID},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[dto.ErrorResponse](t, resp).Message, domain.MsgInstanceNotFound)

	lines := decode[[]dto.MovementResponse](t, env.do(t, http.MethodGet, "/api/returns/in-process", "aliceReturn@example.com", nil))
	assert.Len(t, lines, 1)
}
