package entity

import "time"

// WarehouseProduct es la fila del ledger: stock físico de un producto en una bodega.
// Clave (WarehouseID, ProductID); Quantity nunca baja de 0.
type WarehouseProduct struct {
	WarehouseID int64
	ProductID   int64
	Quantity    int64
	UpdatedAt   time.Time
}

// WarehouseStock fila de ledger con el nombre del producto (vista de bodega).
type WarehouseStock struct {
	WarehouseProduct
	ProductName  string
	ProductBrand string
}
