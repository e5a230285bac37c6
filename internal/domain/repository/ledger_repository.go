package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// LedgerRepository define el puerto sobre las filas de stock (warehouse_products) y los
// contadores del producto (available_qty, sell). Solo se usa atado a una transacción.
type LedgerRepository interface {
	// Reserve descuenta qty de la fila (warehouse, product) solo si quantity >= qty, en una
	// única sentencia. Devuelve false si la fila no existe o no alcanza.
	Reserve(ctx context.Context, warehouseID, productID, qty int64) (bool, error)
	// Release devuelve qty a la fila (warehouse, product).
	Release(ctx context.Context, warehouseID, productID, qty int64) error
	// ApplySale resta qty de available_qty y lo suma a sell.
	ApplySale(ctx context.Context, productID, qty int64) error
	// RevertSale hace lo inverso de ApplySale.
	RevertSale(ctx context.Context, productID, qty int64) error
	// Get lee la fila del ledger; nil si no existe.
	Get(ctx context.Context, warehouseID, productID int64) (*entity.WarehouseProduct, error)
	// ListByWarehouse lista el stock de una bodega.
	ListByWarehouse(ctx context.Context, warehouseID int64) ([]*entity.WarehouseStock, error)
}
