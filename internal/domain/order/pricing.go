package order

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Round2 fija un monto a 2 decimales (precio y porcentaje de impuesto se guardan así).
// nil se conserva: el campo ausente no se convierte en cero.
func Round2(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	r := v.Round(2)
	return &r
}

// LineTotal subtotal, impuesto y total de una línea.
// Subtotal = Precio * Cantidad; Impuesto = Subtotal * Tex% / 100.
type LineTotal struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Totals suma de todas las líneas de un pedido.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// CalculateLine calcula los montos de una línea; precio o impuesto ausentes cuentan como 0.
func CalculateLine(line entity.OrderProduct) LineTotal {
	price := decimal.Zero
	if line.Price != nil {
		price = *line.Price
	}
	rate := decimal.Zero
	if line.TexPercentage != nil {
		rate = *line.TexPercentage
	}
	subtotal := price.Mul(decimal.NewFromInt(line.Quantity)).Round(2)
	tax := subtotal.Mul(rate).Div(hundred).Round(2)
	return LineTotal{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

// CalculateTotals acumula los montos de todas las líneas.
func CalculateTotals(lines []entity.OrderProduct) Totals {
	var t Totals
	for _, l := range lines {
		lt := CalculateLine(l)
		t.Subtotal = t.Subtotal.Add(lt.Subtotal)
		t.Tax = t.Tax.Add(lt.Tax)
	}
	t.Total = t.Subtotal.Add(t.Tax)
	return t
}

// Demand cantidad total pedida de un producto.
type Demand struct {
	ProductID int64
	Quantity  int64
}

// AggregateDemand agrupa las líneas por producto y las devuelve ordenadas por ProductID.
// El orden fijo hace que dos transacciones concurrentes bloqueen las filas del ledger
// en la misma secuencia.
func AggregateDemand(lines []entity.OrderProduct) []Demand {
	byProduct := make(map[int64]int64, len(lines))
	for _, l := range lines {
		byProduct[l.ProductID] += l.Quantity
	}
	out := make([]Demand, 0, len(byProduct))
	for id, qty := range byProduct {
		out = append(out, Demand{ProductID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
