package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// WarehouseRequest entrada para crear o renombrar una bodega.
type WarehouseRequest struct {
	Name string `json:"name"`
}

// Normalize recorta espacios y valida.
func (r *WarehouseRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return domain.Invalid("name es requerido")
	}
	return nil
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Meta Meta                `json:"meta"`
	Data []WarehouseResponse `json:"data"`
}

// WarehouseStockResponse fila del ledger de una bodega.
type WarehouseStockResponse struct {
	ProductID int64     `json:"productId"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateProductRequest entrada para crear un producto (sin stock: lo mueve el motor de pedidos).
type CreateProductRequest struct {
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	PurchaseCost decimal.Decimal `json:"purchaseCost"`
	Unit         string          `json:"unit"`
	RemainderQty int64           `json:"remainderQty"`
}

// Normalize recorta espacios y valida.
func (r *CreateProductRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Brand = strings.TrimSpace(r.Brand)
	r.Unit = strings.TrimSpace(r.Unit)
	switch {
	case r.Name == "":
		return domain.Invalid("name es requerido")
	case r.Brand == "":
		return domain.Invalid("brand es requerido")
	case r.Unit == "":
		return domain.Invalid("unit es requerido")
	case r.PurchaseCost.IsNegative():
		return domain.Invalid("purchaseCost no puede ser negativo")
	case r.RemainderQty < 0:
		return domain.Invalid("remainderQty no puede ser negativo")
	}
	return nil
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	Unit         string          `json:"unit"`
	PurchaseCost decimal.Decimal `json:"purchaseCost"`
	RemainderQty int64           `json:"remainderQty"`
	AvailableQty int64           `json:"availableQty"`
	Sell         int64           `json:"sell"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Meta Meta              `json:"meta"`
	Data []ProductResponse `json:"data"`
}
