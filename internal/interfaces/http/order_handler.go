package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
)

type orderService interface {
	Create(ctx context.Context, in dto.OrderRequest) (*dto.OrderResponse, error)
	Update(ctx context.Context, id int64, in dto.OrderRequest) (*dto.OrderResponse, error)
	List(ctx context.Context, q dto.OrderListQuery) (*dto.OrderListResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.OrderDetailResponse, error)
}

type orderPDFService interface {
	GeneratePDF(ctx context.Context, orderID int64) ([]byte, string, error)
}

// Parámetros de GET /api/orders que no son filtros de igualdad.
var orderListReserved = map[string]bool{
	"searchTerm": true,
	"page":       true,
	"limit":      true,
	"sortBy":     true,
	"sortOrder":  true,
}

// OrderHandler maneja las peticiones HTTP de pedidos (protegido).
type OrderHandler struct {
	uc  orderService
	pdf orderPDFService
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc orderService, pdf orderPDFService) *OrderHandler {
	return &OrderHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Descuenta el stock de la bodega y mueve availableQty/sell de cada producto en una sola transacción.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OrderRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	in, err := h.parseOrder(c)
	if err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar pedido
// @Description  Reemplaza todas las líneas: devuelve el stock anterior y reserva el nuevo.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int               true  "ID del pedido"
// @Param        body  body  dto.OrderRequest  true  "Cabecera y líneas"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	in, err := h.parseOrder(c)
	if err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// createdById toma el usuario del token cuando el cliente no lo envía.
func (h *OrderHandler) parseOrder(c *fiber.Ctx) (dto.OrderRequest, error) {
	var in dto.OrderRequest
	if err := c.BodyParser(&in); err != nil {
		return in, err
	}
	if in.CreatedByID == 0 {
		in.CreatedByID = GetUserID(c)
	}
	return in, nil
}

// List godoc
// @Summary      Listar pedidos
// @Description  searchTerm busca en invoiceId y nombre/teléfono del cliente; el resto de parámetros son filtros de igualdad.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        searchTerm   query  string  false  "Texto libre"
// @Param        warehouseId  query  int     false  "Bodega"
// @Param        customerId   query  int     false  "Cliente"
// @Param        page         query  int     false  "Página"  default(1)
// @Param        limit        query  int     false  "Límite"  default(10)
// @Param        sortBy       query  string  false  "Campo"   default(createdAt)
// @Param        sortOrder    query  string  false  "asc|desc"
// @Success      200          {object}  dto.OrderListResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.OrderListQuery
	if err := c.QueryParser(&q.Pagination); err != nil {
		return writeError(c, invalidQuery(err))
	}
	q.SearchTerm = c.Query("searchTerm")
	q.Filters = map[string]string{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		if key := string(k); !orderListReserved[key] {
			q.Filters[key] = string(v)
		}
	})
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      PDF del pedido
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pdf [get]
func (h *OrderHandler) PDF(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	doc, invoiceID, err := h.pdf.GeneratePDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s.pdf"`, invoiceID))
	return c.Send(doc)
}
