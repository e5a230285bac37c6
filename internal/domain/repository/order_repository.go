package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// SortOrder dirección de ordenamiento.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// OrderFilter criterios del listado de pedidos.
// Equals solo admite los campos declarados en OrderFilterableFields.
type OrderFilter struct {
	SearchTerm string
	Equals     map[string]string
	Limit      int
	Offset     int
	SortBy     string
	SortOrder  string
}

// OrderFilterableFields campos aceptados como filtro de igualdad.
var OrderFilterableFields = []string{"warehouseId", "customerId", "inchargeId", "createdById", "invoiceId"}

// OrderSortableFields campos aceptados en sortBy.
var OrderSortableFields = []string{"id", "invoiceId", "createdAt", "updatedAt", "warehouseId", "customerId"}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	// Create inserta la cabecera y todas las líneas; completa IDs y timestamps.
	Create(ctx context.Context, order *entity.Order) error
	// GetForUpdate obtiene el pedido con sus líneas y bloquea la cabecera; nil si no existe.
	GetForUpdate(ctx context.Context, id int64) (*entity.Order, error)
	// UpdateHeader actualiza bodega, cliente y encargado.
	UpdateHeader(ctx context.Context, order *entity.Order) error
	// DeleteLines borra todas las líneas del pedido.
	DeleteLines(ctx context.Context, orderID int64) error
	// AddLines inserta líneas nuevas; completa sus IDs.
	AddLines(ctx context.Context, orderID int64, lines []entity.OrderProduct) error
	// GetDetail vista completa del pedido; nil si no existe.
	GetDetail(ctx context.Context, id int64) (*entity.OrderDetail, error)
	// List devuelve la página pedida y el total de filas que cumplen el filtro.
	List(ctx context.Context, filter OrderFilter) ([]*entity.OrderSummary, int, error)
}

// InvoiceSequence genera identificadores legibles de pedido sin colisiones.
type InvoiceSequence interface {
	Next(ctx context.Context) (string, error)
}
