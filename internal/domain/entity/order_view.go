package entity

import "time"

// Contact datos de contacto de un cliente o usuario en la vista de detalle.
type Contact struct {
	ID        int64
	Name      string
	Email     string
	ContactNo string
}

// OrderLineDetail línea con los datos del producto.
type OrderLineDetail struct {
	OrderProduct
	ProductName  string
	ProductBrand string
}

// OrderDetail vista completa de un pedido (GET por id y PDF).
type OrderDetail struct {
	Order
	WarehouseName string
	Customer      Contact
	Incharge      Contact
	CreatedBy     Contact
	Lines         []OrderLineDetail
}

// OrderSummary fila del listado: líneas proyectadas a nombres de producto.
type OrderSummary struct {
	ID            int64
	InvoiceID     string
	WarehouseID   int64
	WarehouseName string
	CustomerID    int64
	CustomerName  string
	InchargeID    int64
	InchargeName  string
	CreatedByID   int64
	CreatedByName string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ProductNames  []string
}
