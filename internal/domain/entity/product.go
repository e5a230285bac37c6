package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// AvailableQty es el agregado global de stock (suma de WarehouseProduct.Quantity) y Sell
// las unidades vendidas acumuladas; ambos solo los mueve el motor de pedidos.
type Product struct {
	ID           int64
	Name         string
	Brand        string
	Unit         string
	PurchaseCost decimal.Decimal
	RemainderQty int64 // umbral de alerta de reposición
	AvailableQty int64
	Sell         int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
