package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	apphttp "github.com/jhoicas/Pedidos-api/internal/interfaces/http"
)

// ─── fakes ────────────────────────────────────────────────────────────────────

type fakeOrders struct {
	created  dto.OrderRequest
	updateID int64
	query    dto.OrderListQuery
	err      error
}

func (f *fakeOrders) Create(_ context.Context, in dto.OrderRequest) (*dto.OrderResponse, error) {
	f.created = in
	if f.err != nil {
		return nil, f.err
	}
	return &dto.OrderResponse{ID: 1, InvoiceID: "ORD-20260101-0001", CreatedByID: in.CreatedByID}, nil
}

func (f *fakeOrders) Update(_ context.Context, id int64, in dto.OrderRequest) (*dto.OrderResponse, error) {
	f.updateID = id
	if f.err != nil {
		return nil, f.err
	}
	return &dto.OrderResponse{ID: id}, nil
}

func (f *fakeOrders) List(_ context.Context, q dto.OrderListQuery) (*dto.OrderListResponse, error) {
	f.query = q
	if f.err != nil {
		return nil, f.err
	}
	return &dto.OrderListResponse{Data: []dto.OrderSummaryResponse{}}, nil
}

func (f *fakeOrders) GetByID(_ context.Context, id int64) (*dto.OrderDetailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.OrderDetailResponse{ID: id}, nil
}

type fakePDF struct{}

func (fakePDF) GeneratePDF(_ context.Context, id int64) ([]byte, string, error) {
	if id != 1 {
		return nil, "", domain.NotFound("pedido no encontrado")
	}
	return []byte("%PDF-1.3"), "ORD-20260101-0001", nil
}

type fakeAuth struct{}

func (fakeAuth) Login(_ context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Email != "ana@example.com" {
		return nil, domain.ErrUserNotFound
	}
	return &dto.LoginResponse{AccessToken: "a", RefreshToken: "r"}, nil
}

type fakeWarehouseSvc struct{}

func (fakeWarehouseSvc) Create(_ context.Context, in dto.WarehouseRequest) (*dto.WarehouseResponse, error) {
	return &dto.WarehouseResponse{ID: 1, Name: in.Name}, nil
}
func (fakeWarehouseSvc) GetByID(_ context.Context, id int64) (*dto.WarehouseResponse, error) {
	return &dto.WarehouseResponse{ID: id}, nil
}
func (fakeWarehouseSvc) Update(_ context.Context, id int64, in dto.WarehouseRequest) (*dto.WarehouseResponse, error) {
	return &dto.WarehouseResponse{ID: id, Name: in.Name}, nil
}
func (fakeWarehouseSvc) List(context.Context, dto.PaginationOptions) (*dto.WarehouseListResponse, error) {
	return &dto.WarehouseListResponse{}, nil
}
func (fakeWarehouseSvc) Stock(context.Context, int64) ([]dto.WarehouseStockResponse, error) {
	return []dto.WarehouseStockResponse{}, nil
}

type fakeProductSvc struct{}

func (fakeProductSvc) Create(_ context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	return &dto.ProductResponse{ID: 1, Name: in.Name}, nil
}
func (fakeProductSvc) GetByID(_ context.Context, id int64) (*dto.ProductResponse, error) {
	return &dto.ProductResponse{ID: id}, nil
}
func (fakeProductSvc) List(context.Context, dto.PaginationOptions) (*dto.ProductListResponse, error) {
	return &dto.ProductListResponse{}, nil
}

func newRouterApp(orders *fakeOrders) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      fakeAuth{},
		WarehouseUC: fakeWarehouseSvc{},
		ProductUC:   fakeProductSvc{},
		OrderUC:     orders,
		OrderPDF:    fakePDF{},
		JWTSecret:   testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e), string(raw))
	return e.Code
}

var orderBody = map[string]any{
	"warehouseId": 1, "customerId": 1, "inchargeId": 2,
	"products": []map[string]any{{"productId": 1, "quantity": 4, "price": "12.5"}},
}

// ─── crear ────────────────────────────────────────────────────────────────────

func TestOrderCreate_CreatedByDelToken(t *testing.T) {
	orders := &fakeOrders{}
	resp, raw := call(t, newRouterApp(orders), http.MethodPost, "/api/orders", token(t, "employee", "PRODUCT_SELL"), orderBody)

	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	assert.Equal(t, testUserID, orders.created.CreatedByID)
	require.Len(t, orders.created.Products, 1)
	assert.Equal(t, "12.5", orders.created.Products[0].Price.String())
}

func TestOrderCreate_RespetaCreatedByExplicito(t *testing.T) {
	orders := &fakeOrders{}
	body := map[string]any{"warehouseId": 1, "customerId": 1, "inchargeId": 2, "createdById": 3,
		"products": []map[string]any{{"productId": 1, "quantity": 1}}}

	resp, _ := call(t, newRouterApp(orders), http.MethodPost, "/api/orders", token(t, "admin"), body)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int64(3), orders.created.CreatedByID)
}

func TestOrderCreate_Autorizacion(t *testing.T) {
	app := newRouterApp(&fakeOrders{})

	resp, _ := call(t, app, http.MethodPost, "/api/orders", "", orderBody)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw := call(t, app, http.MethodPost, "/api/orders", token(t, "employee", "INVENTORY"), orderBody)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, raw))
}

func TestOrderCreate_MapeoDeErrores(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"stock insuficiente", domain.InsufficientStock("Tornillo", "Central"), http.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"validación", domain.Invalid("products debe tener al menos una línea"), http.StatusBadRequest, "VALIDATION"},
		{"no encontrado", domain.NotFound("cliente no encontrado"), http.StatusNotFound, "NOT_FOUND"},
		{"duplicado", &domain.Error{Kind: domain.ErrDuplicate, Message: "invoiceId duplicado"}, http.StatusConflict, "DUPLICATE"},
		{"interno", domain.Internal(errors.New("conexión perdida"), "fallo"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := call(t, newRouterApp(&fakeOrders{err: tc.err}), http.MethodPost, "/api/orders", token(t, "admin"), orderBody)

			assert.Equal(t, tc.status, resp.StatusCode)
			var e dto.ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &e))
			assert.Equal(t, tc.code, e.Code)
			assert.Equal(t, tc.err.Error(), e.Message, "el mensaje original se conserva")
		})
	}
}

func TestOrderCreate_BodyInvalido(t *testing.T) {
	resp, raw := call(t, newRouterApp(&fakeOrders{}), http.MethodPost, "/api/orders", token(t, "admin"), `{"warehouseId": "x"`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, raw))
}

// ─── editar ───────────────────────────────────────────────────────────────────

func TestOrderUpdate(t *testing.T) {
	orders := &fakeOrders{}
	app := newRouterApp(orders)

	resp, _ := call(t, app, http.MethodPut, "/api/orders/42", token(t, "employee", "PRODUCT_SELL"), orderBody)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(42), orders.updateID)

	resp, raw := call(t, app, http.MethodPut, "/api/orders/abc", token(t, "admin"), orderBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))
}

// ─── consultar ────────────────────────────────────────────────────────────────

func TestOrderList_SeparaFiltrosDePaginacion(t *testing.T) {
	orders := &fakeOrders{}

	resp, _ := call(t, newRouterApp(orders), http.MethodGet,
		"/api/orders?searchTerm=ana&warehouseId=2&page=2&limit=5&sortBy=invoiceId&sortOrder=asc", token(t, "employee"), nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ana", orders.query.SearchTerm)
	assert.Equal(t, map[string]string{"warehouseId": "2"}, orders.query.Filters)
	assert.Equal(t, dto.PaginationOptions{Page: 2, Limit: 5, SortBy: "invoiceId", SortOrder: "asc"}, orders.query.Pagination)
}

func TestOrderGetByID_NoExiste(t *testing.T) {
	resp, raw := call(t, newRouterApp(&fakeOrders{err: domain.NotFound("pedido no encontrado")}), http.MethodGet, "/api/orders/9", token(t, "employee"), nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}

func TestOrderGetByID_IDInvalido(t *testing.T) {
	resp, raw := call(t, newRouterApp(&fakeOrders{}), http.MethodGet, "/api/orders/abc", token(t, "employee"), nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))
}

func TestRutaInexistente(t *testing.T) {
	resp, raw := call(t, newRouterApp(&fakeOrders{}), http.MethodGet, "/api/clientes", token(t, "employee"), nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}

func TestOrderPDF(t *testing.T) {
	app := newRouterApp(&fakeOrders{})

	resp, raw := call(t, app, http.MethodGet, "/api/orders/1/pdf", token(t, "employee"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "ORD-20260101-0001.pdf")
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	resp, _ = call(t, app, http.MethodGet, "/api/orders/2/pdf", token(t, "employee"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ─── auth y catálogo ──────────────────────────────────────────────────────────

func TestLogin_Publico(t *testing.T) {
	app := newRouterApp(&fakeOrders{})

	resp, raw := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "x"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "a", out.AccessToken)

	resp, raw = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "otro@example.com", Password: "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "USER_NOT_FOUND", errorCode(t, raw))
}

func TestCatalogo_Permisos(t *testing.T) {
	app := newRouterApp(&fakeOrders{})

	resp, _ := call(t, app, http.MethodPost, "/api/warehouses", token(t, "employee", "INVENTORY"), dto.WarehouseRequest{Name: "Central"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "crear bodega es solo admin")

	resp, _ = call(t, app, http.MethodPost, "/api/warehouses", token(t, "admin"), dto.WarehouseRequest{Name: "Central"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/warehouses/1/products", token(t, "employee", "INVENTORY"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/warehouses/1/products", token(t, "employee"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/products", token(t, "employee", "PRODUCT_BUY"), map[string]any{"name": "Tornillo"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
