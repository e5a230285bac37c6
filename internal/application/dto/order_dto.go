package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// OrderLineRequest línea del payload de creación/edición.
type OrderLineRequest struct {
	ProductID     int64            `json:"productId"`
	Quantity      int64            `json:"quantity"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	TexPercentage *decimal.Decimal `json:"texPercentage,omitempty"`
}

// MaxProductQuantity tope de unidades de un mismo producto en un pedido (sumando sus líneas).
const MaxProductQuantity int64 = 1_000_000_000

// OrderRequest body de POST /api/orders y PUT /api/orders/:id (reemplazo completo).
type OrderRequest struct {
	WarehouseID int64              `json:"warehouseId"`
	CustomerID  int64              `json:"customerId"`
	InchargeID  int64              `json:"inchargeId"`
	CreatedByID int64              `json:"createdById"`
	Products    []OrderLineRequest `json:"products"`
}

// Validate revisa el payload antes de que llegue al motor de pedidos.
func (r OrderRequest) Validate() error {
	switch {
	case r.WarehouseID <= 0:
		return domain.Invalid("warehouseId es requerido")
	case r.CustomerID <= 0:
		return domain.Invalid("customerId es requerido")
	case r.InchargeID <= 0:
		return domain.Invalid("inchargeId es requerido")
	case r.CreatedByID <= 0:
		return domain.Invalid("createdById es requerido")
	case len(r.Products) == 0:
		return domain.Invalid("products debe tener al menos una línea")
	}
	totals := make(map[int64]int64, len(r.Products))
	for i, p := range r.Products {
		if p.ProductID <= 0 {
			return domain.Invalid("products[%d].productId es requerido", i)
		}
		if p.Quantity < 1 {
			return domain.Invalid("products[%d].quantity debe ser al menos 1", i)
		}
		if p.Quantity > MaxProductQuantity {
			return domain.Invalid("products[%d].quantity supera el máximo de %d", i, MaxProductQuantity)
		}
		// Ambos sumandos están acotados por MaxProductQuantity: la suma no desborda.
		totals[p.ProductID] += p.Quantity
		if totals[p.ProductID] > MaxProductQuantity {
			return domain.Invalid("la cantidad total del producto %d supera el máximo de %d", p.ProductID, MaxProductQuantity)
		}
		if p.Price != nil && p.Price.IsNegative() {
			return domain.Invalid("products[%d].price no puede ser negativo", i)
		}
		if p.TexPercentage != nil && p.TexPercentage.IsNegative() {
			return domain.Invalid("products[%d].texPercentage no puede ser negativo", i)
		}
	}
	return nil
}

// OrderProductResponse línea persistida.
type OrderProductResponse struct {
	ID            int64            `json:"id"`
	OrderID       int64            `json:"orderId"`
	ProductID     int64            `json:"productId"`
	Quantity      int64            `json:"quantity"`
	Price         *decimal.Decimal `json:"price"`
	TexPercentage *decimal.Decimal `json:"texPercentage"`
}

// TotalsResponse montos calculados del pedido.
type TotalsResponse struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// OrderResponse pedido con sus líneas (respuesta de crear/editar).
type OrderResponse struct {
	ID          int64                  `json:"id"`
	InvoiceID   string                 `json:"invoiceId"`
	WarehouseID int64                  `json:"warehouseId"`
	CustomerID  int64                  `json:"customerId"`
	InchargeID  int64                  `json:"inchargeId"`
	CreatedByID int64                  `json:"createdById"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
	Products    []OrderProductResponse `json:"products"`
	Totals      TotalsResponse         `json:"totals"`
}

// ContactResponse datos de contacto de cliente o usuario.
type ContactResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	ContactNo string `json:"contactNo"`
}

// NameResponse solo el nombre (bodega en el detalle, relaciones en el listado).
type NameResponse struct {
	Name string `json:"name"`
}

// ProductRefResponse producto referenciado por una línea.
type ProductRefResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
}

// OrderLineDetailResponse línea con su producto.
type OrderLineDetailResponse struct {
	OrderProductResponse
	Product ProductRefResponse `json:"product"`
}

// OrderDetailResponse GET /api/orders/:id.
type OrderDetailResponse struct {
	ID          int64                     `json:"id"`
	InvoiceID   string                    `json:"invoiceId"`
	WarehouseID int64                     `json:"warehouseId"`
	CustomerID  int64                     `json:"customerId"`
	InchargeID  int64                     `json:"inchargeId"`
	CreatedByID int64                     `json:"createdById"`
	CreatedAt   time.Time                 `json:"createdAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
	Warehouse   NameResponse              `json:"warehouse"`
	Customer    ContactResponse           `json:"customer"`
	Incharge    ContactResponse           `json:"incharge"`
	CreatedBy   ContactResponse           `json:"createdBy"`
	Products    []OrderLineDetailResponse `json:"products"`
	Totals      TotalsResponse            `json:"totals"`
}

// OrderSummaryResponse fila del listado; products son solo nombres.
type OrderSummaryResponse struct {
	ID          int64        `json:"id"`
	InvoiceID   string       `json:"invoiceId"`
	WarehouseID int64        `json:"warehouseId"`
	CustomerID  int64        `json:"customerId"`
	InchargeID  int64        `json:"inchargeId"`
	CreatedByID int64        `json:"createdById"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Warehouse   NameResponse `json:"warehouse"`
	Customer    NameResponse `json:"customer"`
	Incharge    NameResponse `json:"incharge"`
	CreatedBy   NameResponse `json:"createdBy"`
	Products    []string     `json:"products"`
}

// OrderListQuery filtros y paginación de GET /api/orders.
type OrderListQuery struct {
	SearchTerm string
	Filters    map[string]string
	Pagination PaginationOptions
}

// OrderListResponse respuesta paginada.
type OrderListResponse struct {
	Meta Meta                   `json:"meta"`
	Data []OrderSummaryResponse `json:"data"`
}
