package order

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Hace Commit si fn devuelve nil y Rollback en cualquier otra salida. Ante conflictos de
// serialización puede volver a ejecutar fn completa, por lo que fn no debe tener efectos fuera de la tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
	) error) error
}

// PDFGenerator genera la representación imprimible de un pedido.
type PDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, detail *entity.OrderDetail) ([]byte, error)
}
