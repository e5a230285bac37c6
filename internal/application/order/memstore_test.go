package order_test

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional: cada Run trabaja sobre una copia
// del estado y solo la publica si fn devuelve nil. Un mutex global serializa las
// transacciones (equivalente a SERIALIZABLE).
// ──────────────────────────────────────────────────────────────────────────────

type ledgerKey struct{ warehouseID, productID int64 }

type memState struct {
	ledger      map[ledgerKey]int64
	products    map[int64]entity.Product
	warehouses  map[int64]entity.Warehouse
	orders      map[int64]entity.Order
	nextOrderID int64
	nextLineID  int64
}

func (s *memState) clone() *memState {
	c := &memState{
		ledger:      make(map[ledgerKey]int64, len(s.ledger)),
		products:    make(map[int64]entity.Product, len(s.products)),
		warehouses:  make(map[int64]entity.Warehouse, len(s.warehouses)),
		orders:      make(map[int64]entity.Order, len(s.orders)),
		nextOrderID: s.nextOrderID,
		nextLineID:  s.nextLineID,
	}
	for k, v := range s.ledger {
		c.ledger[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.orders {
		v.Products = append([]entity.OrderProduct(nil), v.Products...)
		c.orders[k] = v
	}
	return c
}

type memDB struct {
	mu      sync.Mutex
	state   *memState
	seq     int
	seqErr  error
	failOn  string // "create", "addLines": simula un error de BD en esa operación
	txCount int
	calls   []string // operaciones del ledger en el orden en que se pidieron
}

func newMemDB() *memDB {
	return &memDB{state: &memState{
		ledger:     map[ledgerKey]int64{},
		products:   map[int64]entity.Product{},
		warehouses: map[int64]entity.Warehouse{},
		orders:     map[int64]entity.Order{},
	}}
}

func (db *memDB) addWarehouse(id int64, name string) {
	db.state.warehouses[id] = entity.Warehouse{ID: id, Name: name}
}

func (db *memDB) addProduct(id int64, name string, available, sell int64) {
	db.state.products[id] = entity.Product{ID: id, Name: name, Brand: "Marca " + name, AvailableQty: available, Sell: sell}
}

func (db *memDB) setStock(warehouseID, productID, qty int64) {
	db.state.ledger[ledgerKey{warehouseID, productID}] = qty
}

// snapshot devuelve (stock, disponible, vendido) para comparar estados.
func (db *memDB) snapshot(warehouseID, productID int64) [3]int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	p := db.state.products[productID]
	return [3]int64{db.state.ledger[ledgerKey{warehouseID, productID}], p.AvailableQty, p.Sell}
}

func (db *memDB) orderCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.state.orders)
}

// takeCalls devuelve y limpia el registro de operaciones del ledger.
func (db *memDB) takeCalls() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := db.calls
	db.calls = nil
	return out
}

func (db *memDB) order(id int64) entity.Order {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.orders[id]
}

// Next implementa repository.InvoiceSequence.
func (db *memDB) Next(_ context.Context) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.seqErr != nil {
		return "", db.seqErr
	}
	db.seq++
	return fmt.Sprintf("ORD-20260101-%04d", db.seq), nil
}

// Run implementa order.TxRunner.
func (db *memDB) Run(_ context.Context, fn func(
	orderRepo repository.OrderRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.txCount++
	work := db.state.clone()
	if err := fn(&memOrders{s: work, db: db}, &memLedger{s: work, db: db}, &memProducts{s: work}, &memWarehouses{s: work}); err != nil {
		return err
	}
	db.state = work
	return nil
}

// reader repositorio de pedidos fuera de transacción (lee el estado publicado).
func (db *memDB) reader() repository.OrderRepository { return &memReader{db: db} }

// ── ledger ────────────────────────────────────────────────────────────────────

type memLedger struct {
	s  *memState
	db *memDB
}

func (l *memLedger) record(format string, args ...any) {
	l.db.calls = append(l.db.calls, fmt.Sprintf(format, args...))
}

func (l *memLedger) Reserve(_ context.Context, warehouseID, productID, qty int64) (bool, error) {
	l.record("reserve w%d p%d %d", warehouseID, productID, qty)
	if qty <= 0 {
		return false, fmt.Errorf("reserve stock: cantidad %d no positiva", qty)
	}
	k := ledgerKey{warehouseID, productID}
	cur, ok := l.s.ledger[k]
	if !ok || cur < qty {
		return false, nil
	}
	l.s.ledger[k] = cur - qty
	return true, nil
}

func (l *memLedger) Release(_ context.Context, warehouseID, productID, qty int64) error {
	l.record("release w%d p%d %d", warehouseID, productID, qty)
	if qty <= 0 {
		return fmt.Errorf("release stock: cantidad %d no positiva", qty)
	}
	k := ledgerKey{warehouseID, productID}
	if _, ok := l.s.ledger[k]; !ok {
		return fmt.Errorf("release stock: fila inexistente (%d,%d)", warehouseID, productID)
	}
	l.s.ledger[k] += qty
	return nil
}

func (l *memLedger) ApplySale(_ context.Context, productID, qty int64) error {
	l.record("apply p%d %d", productID, qty)
	if qty <= 0 {
		return fmt.Errorf("apply sale: cantidad %d no positiva", qty)
	}
	p, ok := l.s.products[productID]
	if !ok {
		return fmt.Errorf("apply sale: producto %d inexistente", productID)
	}
	p.AvailableQty -= qty
	p.Sell += qty
	l.s.products[productID] = p
	return nil
}

func (l *memLedger) RevertSale(_ context.Context, productID, qty int64) error {
	l.record("revert p%d %d", productID, qty)
	if qty <= 0 {
		return fmt.Errorf("revert sale: cantidad %d no positiva", qty)
	}
	p, ok := l.s.products[productID]
	if !ok {
		return fmt.Errorf("revert sale: producto %d inexistente", productID)
	}
	p.AvailableQty += qty
	p.Sell -= qty
	l.s.products[productID] = p
	return nil
}

func (l *memLedger) Get(_ context.Context, warehouseID, productID int64) (*entity.WarehouseProduct, error) {
	q, ok := l.s.ledger[ledgerKey{warehouseID, productID}]
	if !ok {
		return nil, nil
	}
	return &entity.WarehouseProduct{WarehouseID: warehouseID, ProductID: productID, Quantity: q}, nil
}

func (l *memLedger) ListByWarehouse(_ context.Context, warehouseID int64) ([]*entity.WarehouseStock, error) {
	var out []*entity.WarehouseStock
	for k, q := range l.s.ledger {
		if k.warehouseID == warehouseID {
			out = append(out, &entity.WarehouseStock{
				WarehouseProduct: entity.WarehouseProduct{WarehouseID: k.warehouseID, ProductID: k.productID, Quantity: q},
				ProductName:      l.s.products[k.productID].Name,
			})
		}
	}
	return out, nil
}

// ── productos y bodegas ───────────────────────────────────────────────────────

type memProducts struct{ s *memState }

func (r *memProducts) Create(_ context.Context, p *entity.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r *memProducts) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memProducts) List(_ context.Context, _, _ int) ([]*entity.Product, int, error) {
	return nil, 0, nil
}

type memWarehouses struct{ s *memState }

func (r *memWarehouses) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *memWarehouses) GetByID(_ context.Context, id int64) (*entity.Warehouse, error) {
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *memWarehouses) Update(_ context.Context, w *entity.Warehouse) error {
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *memWarehouses) List(_ context.Context, _, _ int) ([]*entity.Warehouse, int, error) {
	return nil, 0, nil
}

// ── pedidos ───────────────────────────────────────────────────────────────────

type memOrders struct {
	s  *memState
	db *memDB
}

func (r *memOrders) Create(_ context.Context, o *entity.Order) error {
	if r.db.failOn == "create" {
		return fmt.Errorf("insert order: violates foreign key constraint \"orders_customer_id_fkey\"")
	}
	r.s.nextOrderID++
	o.ID = r.s.nextOrderID
	now := time.Now()
	o.CreatedAt, o.UpdatedAt = now, now
	r.assignLines(o.ID, o.Products)
	stored := *o
	stored.Products = append([]entity.OrderProduct(nil), o.Products...)
	r.s.orders[o.ID] = stored
	return nil
}

func (r *memOrders) assignLines(orderID int64, lines []entity.OrderProduct) {
	for i := range lines {
		r.s.nextLineID++
		lines[i].ID = r.s.nextLineID
		lines[i].OrderID = orderID
	}
}

func (r *memOrders) GetForUpdate(_ context.Context, id int64) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	o.Products = append([]entity.OrderProduct(nil), o.Products...)
	return &o, nil
}

func (r *memOrders) UpdateHeader(_ context.Context, o *entity.Order) error {
	stored := r.s.orders[o.ID]
	stored.WarehouseID, stored.CustomerID, stored.InchargeID = o.WarehouseID, o.CustomerID, o.InchargeID
	stored.UpdatedAt = time.Now()
	o.UpdatedAt = stored.UpdatedAt
	r.s.orders[o.ID] = stored
	return nil
}

func (r *memOrders) DeleteLines(_ context.Context, orderID int64) error {
	stored := r.s.orders[orderID]
	stored.Products = nil
	r.s.orders[orderID] = stored
	return nil
}

func (r *memOrders) AddLines(_ context.Context, orderID int64, lines []entity.OrderProduct) error {
	if r.db.failOn == "addLines" {
		return fmt.Errorf("insert order products: connection reset by peer")
	}
	r.assignLines(orderID, lines)
	stored := r.s.orders[orderID]
	stored.Products = append(stored.Products, lines...)
	r.s.orders[orderID] = stored
	return nil
}

func (r *memOrders) GetDetail(_ context.Context, id int64) (*entity.OrderDetail, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	d := &entity.OrderDetail{
		Order:         o,
		WarehouseName: r.s.warehouses[o.WarehouseID].Name,
		Customer:      entity.Contact{ID: o.CustomerID, Name: fmt.Sprintf("Cliente %d", o.CustomerID)},
		Incharge:      entity.Contact{ID: o.InchargeID},
		CreatedBy:     entity.Contact{ID: o.CreatedByID},
	}
	for _, l := range o.Products {
		p := r.s.products[l.ProductID]
		d.Lines = append(d.Lines, entity.OrderLineDetail{OrderProduct: l, ProductName: p.Name, ProductBrand: p.Brand})
	}
	return d, nil
}

// List soporta searchTerm sobre invoiceId y el filtro warehouseId; suficiente para los tests.
func (r *memOrders) List(_ context.Context, f repository.OrderFilter) ([]*entity.OrderSummary, int, error) {
	ids := make([]int64, 0, len(r.s.orders))
	for id := range r.s.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	var matched []*entity.OrderSummary
	for _, id := range ids {
		o := r.s.orders[id]
		if f.SearchTerm != "" && !strings.Contains(strings.ToLower(o.InvoiceID), strings.ToLower(f.SearchTerm)) {
			continue
		}
		if w, ok := f.Equals["warehouseId"]; ok && w != strconv.FormatInt(o.WarehouseID, 10) {
			continue
		}
		s := &entity.OrderSummary{ID: o.ID, InvoiceID: o.InvoiceID, WarehouseID: o.WarehouseID, CreatedAt: o.CreatedAt}
		for _, l := range o.Products {
			s.ProductNames = append(s.ProductNames, r.s.products[l.ProductID].Name)
		}
		matched = append(matched, s)
	}
	total := len(matched)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

type memReader struct{ db *memDB }

func (r *memReader) locked() *memOrders {
	return &memOrders{s: r.db.state, db: r.db}
}

func (r *memReader) Create(ctx context.Context, o *entity.Order) error {
	return fmt.Errorf("lectura: Create no permitido fuera de tx")
}

func (r *memReader) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return nil, fmt.Errorf("lectura: GetForUpdate no permitido fuera de tx")
}

func (r *memReader) UpdateHeader(ctx context.Context, o *entity.Order) error {
	return fmt.Errorf("lectura: UpdateHeader no permitido fuera de tx")
}

func (r *memReader) DeleteLines(ctx context.Context, orderID int64) error {
	return fmt.Errorf("lectura: DeleteLines no permitido fuera de tx")
}

func (r *memReader) AddLines(ctx context.Context, orderID int64, lines []entity.OrderProduct) error {
	return fmt.Errorf("lectura: AddLines no permitido fuera de tx")
}

func (r *memReader) GetDetail(ctx context.Context, id int64) (*entity.OrderDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.locked().GetDetail(ctx, id)
}

func (r *memReader) List(ctx context.Context, f repository.OrderFilter) ([]*entity.OrderSummary, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.locked().List(ctx, f)
}
