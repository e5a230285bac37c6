package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo stock por bodega (warehouse_products) y contadores de products.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Reserve descuenta qty solo si alcanza. El WHERE hace de chequeo y el UPDATE toma el lock
// de la fila, así que dos transacciones no pueden reservar el mismo stock.
func (r *LedgerRepo) Reserve(ctx context.Context, warehouseID, productID, qty int64) (bool, error) {
	if err := positiveQty("reserve stock", qty); err != nil {
		return false, err
	}
	query := `
		UPDATE warehouse_products
		SET quantity = quantity - $3, updated_at = NOW()
		WHERE warehouse_id = $1 AND product_id = $2 AND quantity >= $3`
	cmd, err := r.q.Exec(ctx, query, warehouseID, productID, qty)
	if err != nil {
		return false, fmt.Errorf("reserve stock: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// Release devuelve qty a la bodega; crea la fila si ya no existe.
func (r *LedgerRepo) Release(ctx context.Context, warehouseID, productID, qty int64) error {
	if err := positiveQty("release stock", qty); err != nil {
		return err
	}
	query := `
		INSERT INTO warehouse_products (warehouse_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET quantity = warehouse_products.quantity + EXCLUDED.quantity, updated_at = NOW()`
	if _, err := r.q.Exec(ctx, query, warehouseID, productID, qty); err != nil {
		if c := foreignKeyConstraint(err); c != "" {
			return domain.NotFound("bodega o producto no encontrado (%s)", c)
		}
		return fmt.Errorf("release stock: %w", err)
	}
	return nil
}

// ApplySale mueve qty de available_qty a sell.
func (r *LedgerRepo) ApplySale(ctx context.Context, productID, qty int64) error {
	if err := positiveQty("apply sale", qty); err != nil {
		return err
	}
	return r.moveCounters(ctx, "apply sale", productID, -qty)
}

// RevertSale mueve qty de sell de vuelta a available_qty.
func (r *LedgerRepo) RevertSale(ctx context.Context, productID, qty int64) error {
	if err := positiveQty("revert sale", qty); err != nil {
		return err
	}
	return r.moveCounters(ctx, "revert sale", productID, qty)
}

// positiveQty rechaza cantidades <= 0: con signo invertido cada operación haría la contraria.
func positiveQty(op string, qty int64) error {
	if qty <= 0 {
		return domain.Invalid("%s: cantidad %d no positiva", op, qty)
	}
	return nil
}

func (r *LedgerRepo) moveCounters(ctx context.Context, op string, productID, delta int64) error {
	query := `
		UPDATE products
		SET available_qty = available_qty + $2, sell = sell - $2, updated_at = NOW()
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, productID, delta)
	if err != nil {
		if isCheckViolation(err) {
			return &domain.Error{
				Kind:    domain.ErrInsufficientStock,
				Message: fmt.Sprintf("contadores del producto %d quedarían negativos", productID),
				Cause:   err,
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("producto %d no encontrado", productID)
	}
	return nil
}

// Get obtiene la fila (bodega, producto); nil si no existe.
func (r *LedgerRepo) Get(ctx context.Context, warehouseID, productID int64) (*entity.WarehouseProduct, error) {
	query := `
		SELECT warehouse_id, product_id, quantity, updated_at
		FROM warehouse_products WHERE warehouse_id = $1 AND product_id = $2`
	var wp entity.WarehouseProduct
	err := r.q.QueryRow(ctx, query, warehouseID, productID).Scan(&wp.WarehouseID, &wp.ProductID, &wp.Quantity, &wp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &wp, nil
}

// ListByWarehouse stock de una bodega ordenado por nombre de producto.
func (r *LedgerRepo) ListByWarehouse(ctx context.Context, warehouseID int64) ([]*entity.WarehouseStock, error) {
	query := `
		SELECT wp.warehouse_id, wp.product_id, wp.quantity, wp.updated_at, p.name, p.brand
		FROM warehouse_products wp
		JOIN products p ON p.id = wp.product_id
		WHERE wp.warehouse_id = $1
		ORDER BY p.name, p.id`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.WarehouseStock
	for rows.Next() {
		var s entity.WarehouseStock
		if err := rows.Scan(&s.WarehouseID, &s.ProductID, &s.Quantity, &s.UpdatedAt, &s.ProductName, &s.ProductBrand); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
