package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order cabecera de un pedido. Se crea una vez y solo se edita reemplazando todas
// sus líneas; InvoiceID es único y lo asigna el generador de identificadores.
type Order struct {
	ID          int64
	InvoiceID   string
	WarehouseID int64
	CustomerID  int64
	InchargeID  int64
	CreatedByID int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Products    []OrderProduct
}

// OrderProduct línea de pedido. Price y TexPercentage son fotos históricas con 2 decimales;
// nil cuando el cliente no los envió.
type OrderProduct struct {
	ID            int64
	OrderID       int64
	ProductID     int64
	Quantity      int64
	Price         *decimal.Decimal
	TexPercentage *decimal.Decimal
}
