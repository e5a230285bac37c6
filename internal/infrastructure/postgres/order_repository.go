package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// Columnas SQL de los campos de filtro y orden aceptados por el listado.
var (
	orderFilterColumns = map[string]string{
		"warehouseId": "o.warehouse_id",
		"customerId":  "o.customer_id",
		"inchargeId":  "o.incharge_id",
		"createdById": "o.created_by_id",
		"invoiceId":   "o.invoice_id",
	}
	orderSortColumns = map[string]string{
		"id":          "o.id",
		"invoiceId":   "o.invoice_id",
		"createdAt":   "o.created_at",
		"updatedAt":   "o.updated_at",
		"warehouseId": "o.warehouse_id",
		"customerId":  "o.customer_id",
	}
	// FK violadas -> recurso inexistente.
	orderForeignKeys = map[string]string{
		"orders_warehouse_id_fkey":       "bodega no encontrada",
		"orders_customer_id_fkey":        "cliente no encontrado",
		"orders_incharge_id_fkey":        "encargado no encontrado",
		"orders_created_by_id_fkey":      "usuario creador no encontrado",
		"order_products_product_id_fkey": "producto no encontrado",
		"order_products_order_id_fkey":   "pedido no encontrado",
	}
)

const orderJoins = `
	FROM orders o
	JOIN warehouses w ON w.id = o.warehouse_id
	JOIN customers c ON c.id = o.customer_id
	JOIN users i ON i.id = o.incharge_id
	JOIN users cb ON cb.id = o.created_by_id`

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera y sus líneas.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (invoice_id, warehouse_id, customer_id, incharge_id, created_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, o.InvoiceID, o.WarehouseID, o.CustomerID, o.InchargeID, o.CreatedByID).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return mapOrderError("insert order", err)
	}
	return r.AddLines(ctx, o.ID, o.Products)
}

// GetForUpdate lee el pedido con SELECT ... FOR UPDATE; las ediciones concurrentes del mismo
// pedido quedan en fila.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	query := `
		SELECT id, invoice_id, warehouse_id, customer_id, incharge_id, created_by_id, created_at, updated_at
		FROM orders WHERE id = $1
		FOR UPDATE`
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.InvoiceID, &o.WarehouseID, &o.CustomerID, &o.InchargeID, &o.CreatedByID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order for update: %w", err)
	}
	lines, err := r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		o.Products = append(o.Products, l.OrderProduct)
	}
	return &o, nil
}

// UpdateHeader actualiza bodega, cliente y encargado.
func (r *OrderRepo) UpdateHeader(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders SET warehouse_id = $2, customer_id = $3, incharge_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query, o.ID, o.WarehouseID, o.CustomerID, o.InchargeID).Scan(&o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NotFound("pedido no encontrado")
		}
		return mapOrderError("update order", err)
	}
	return nil
}

// DeleteLines borra todas las líneas del pedido.
func (r *OrderRepo) DeleteLines(ctx context.Context, orderID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_products WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete order products: %w", err)
	}
	return nil
}

// AddLines inserta las líneas en un solo batch y completa ID y OrderID.
func (r *OrderRepo) AddLines(ctx context.Context, orderID int64, lines []entity.OrderProduct) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
		INSERT INTO order_products (order_id, product_id, quantity, price, tex_percentage)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	batch := &pgx.Batch{}
	for i := range lines {
		batch.Queue(query, orderID, lines[i].ProductID, lines[i].Quantity, lines[i].Price, lines[i].TexPercentage)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for i := range lines {
		if err := br.QueryRow().Scan(&lines[i].ID); err != nil {
			return mapOrderError("insert order products", err)
		}
		lines[i].OrderID = orderID
	}
	return nil
}

// GetDetail vista completa con bodega, contactos y productos; nil si no existe.
func (r *OrderRepo) GetDetail(ctx context.Context, id int64) (*entity.OrderDetail, error) {
	query := `
		SELECT o.id, o.invoice_id, o.warehouse_id, o.customer_id, o.incharge_id, o.created_by_id,
			o.created_at, o.updated_at, w.name,
			c.id, c.name, c.email, c.contact_no,
			i.id, i.name, i.email, i.contact_no,
			cb.id, cb.name, cb.email, cb.contact_no` + orderJoins + `
		WHERE o.id = $1`
	var d entity.OrderDetail
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.InvoiceID, &d.WarehouseID, &d.CustomerID, &d.InchargeID, &d.CreatedByID,
		&d.CreatedAt, &d.UpdatedAt, &d.WarehouseName,
		&d.Customer.ID, &d.Customer.Name, &d.Customer.Email, &d.Customer.ContactNo,
		&d.Incharge.ID, &d.Incharge.Name, &d.Incharge.Email, &d.Incharge.ContactNo,
		&d.CreatedBy.ID, &d.CreatedBy.Name, &d.CreatedBy.Email, &d.CreatedBy.ContactNo,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order detail: %w", err)
	}
	if d.Lines, err = r.lines(ctx, id); err != nil {
		return nil, err
	}
	for _, l := range d.Lines {
		d.Products = append(d.Products, l.OrderProduct)
	}
	return &d, nil
}

func (r *OrderRepo) lines(ctx context.Context, orderID int64) ([]entity.OrderLineDetail, error) {
	query := `
		SELECT op.id, op.order_id, op.product_id, op.quantity, op.price, op.tex_percentage, p.name, p.brand
		FROM order_products op
		JOIN products p ON p.id = op.product_id
		WHERE op.order_id = $1
		ORDER BY op.id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order products: %w", err)
	}
	defer rows.Close()
	var list []entity.OrderLineDetail
	for rows.Next() {
		var l entity.OrderLineDetail
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.Price, &l.TexPercentage, &l.ProductName, &l.ProductBrand); err != nil {
			return nil, fmt.Errorf("scan order product: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// List búsqueda (invoice, nombre o contacto del cliente, sin distinguir mayúsculas) AND
// filtros de igualdad, con total de coincidencias.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.OrderSummary, int, error) {
	where, args, err := orderWhere(f)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+orderJoins+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	sortCol, ok := orderSortColumns[f.SortBy]
	if !ok {
		sortCol = "o.created_at"
	}
	dir := "DESC"
	if f.SortOrder == repository.SortAsc {
		dir = "ASC"
	}
	args = append(args, f.Limit, f.Offset)
	query := `
		SELECT o.id, o.invoice_id, o.warehouse_id, w.name, o.customer_id, c.name,
			o.incharge_id, i.name, o.created_by_id, cb.name, o.created_at, o.updated_at,
			COALESCE((
				SELECT array_agg(p.name ORDER BY op.id)
				FROM order_products op JOIN products p ON p.id = op.product_id
				WHERE op.order_id = o.id
			), '{}')` + orderJoins + where +
		fmt.Sprintf(" ORDER BY %s %s, o.id %s LIMIT $%d OFFSET $%d", sortCol, dir, dir, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderSummary
	for rows.Next() {
		var s entity.OrderSummary
		if err := rows.Scan(
			&s.ID, &s.InvoiceID, &s.WarehouseID, &s.WarehouseName, &s.CustomerID, &s.CustomerName,
			&s.InchargeID, &s.InchargeName, &s.CreatedByID, &s.CreatedByName, &s.CreatedAt, &s.UpdatedAt,
			&s.ProductNames,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &s)
	}
	return list, total, rows.Err()
}

// orderWhere arma el WHERE parametrizado. Los nombres de columna salen solo de los mapas
// declarados; los valores siempre van como argumentos.
func orderWhere(f repository.OrderFilter) (string, []any, error) {
	var (
		conds []string
		args  []any
	)
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(o.invoice_id ILIKE $%d OR c.name ILIKE $%d OR c.contact_no ILIKE $%d)", n, n, n))
	}

	fields := make([]string, 0, len(f.Equals))
	for field := range f.Equals {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		col, ok := orderFilterColumns[field]
		if !ok {
			return "", nil, domain.Invalid("filtro no permitido: %s", field)
		}
		var v any = f.Equals[field]
		if field != "invoiceId" {
			id, err := strconv.ParseInt(f.Equals[field], 10, 64)
			if err != nil {
				return "", nil, domain.Invalid("%s debe ser numérico", field)
			}
			v = id
		}
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if len(conds) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func mapOrderError(op string, err error) error {
	if c := foreignKeyConstraint(err); c != "" {
		if msg, ok := orderForeignKeys[c]; ok {
			return &domain.Error{Kind: domain.ErrNotFound, Message: msg, Cause: err}
		}
		return &domain.Error{Kind: domain.ErrNotFound, Message: "referencia inexistente: " + c, Cause: err}
	}
	if isUniqueViolation(err) {
		return &domain.Error{Kind: domain.ErrDuplicate, Message: "invoiceId duplicado", Cause: err}
	}
	if isCheckViolation(err) {
		return &domain.Error{Kind: domain.ErrInvalidInput, Message: "línea de pedido inválida", Cause: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
