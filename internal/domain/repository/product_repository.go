package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// No expone escritura de AvailableQty ni Sell: eso es del LedgerRepository.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, int, error)
}
