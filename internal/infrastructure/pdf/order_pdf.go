// Package pdf genera la representación imprimible de un pedido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + bodega     │  invoiceId + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + contacto  │  ENCARGADO / CREADO POR      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | Marca | P.Unit | Imp% | Subtotal  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / TOTAL                      │
//	│  FOOTER: QR con el invoiceId                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	apporder "github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	domainorder "github.com/jhoicas/Pedidos-api/internal/domain/order"
)

var _ apporder.PDFGenerator = (*OrderPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorHeader  = &props.Color{Red: 230, Green: 236, Blue: 242}
)

// OrderPDFGenerator implementa order.PDFGenerator usando Maroto v2.
type OrderPDFGenerator struct {
	company string
}

// NewOrderPDFGenerator construye el generador; company aparece como autor y en el título.
func NewOrderPDFGenerator(company string) *OrderPDFGenerator {
	return &OrderPDFGenerator{company: company}
}

// GenerateOrderPDF genera el PDF del pedido y devuelve sus bytes.
func (g *OrderPDFGenerator) GenerateOrderPDF(_ context.Context, d *entity.OrderDetail) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("pdf: pedido vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pedido "+d.InvoiceID, true).
		WithAuthor(nonEmpty(g.company, "Pedidos"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.company, d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(lineRows(d.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(domainorder.CalculateTotals(d.Products)))

	m.AddRows(line.NewRow(3))
	m.AddRows(qrRow(d.InvoiceID))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(company string, d *entity.OrderDetail) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "ORDEN DE PEDIDO"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Bodega: "+nonEmpty(d.WarehouseName, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PEDIDO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(d.InvoiceID, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+d.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func partiesRow(d *entity.OrderDetail) core.Row {
	return row.New(20).Add(
		col.New(6).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(d.Customer.Name, "—"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(contactLine(d.Customer), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("ENCARGADO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Right}),
			text.New(nonEmpty(d.Incharge.Name, "—"), props.Text{Size: 9, Top: 6, Align: align.Right}),
			text.New("Creado por: "+nonEmpty(d.CreatedBy.Name, "—"), props.Text{Size: 8, Top: 12, Color: colorGray, Align: align.Right}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 4, align.Left),
		h("Marca", 2, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Imp.%", 1, align.Center),
		h("Subtotal", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

func lineRows(lines []entity.OrderLineDetail) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		lt := domainorder.CalculateLine(l.OrderProduct)
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.ProductBrand, props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(2).Add(text.New(moneyOrDash(l.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(percentOrDash(l.TexPercentage), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(FormatMoney(lt.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalsRow(t domainorder.Totals) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Impuestos:", 6),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 12, Color: colorPrimary}),
		),
		col.New(3).Add(
			value(FormatMoney(t.Subtotal), 1),
			value(FormatMoney(t.Tax), 6),
			text.New(FormatMoney(t.Total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 12, Color: colorPrimary}),
		),
	)
}

func qrRow(invoiceID string) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(invoiceID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Escanee el código para consultar el pedido "+invoiceID+".", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func contactLine(c entity.Contact) string {
	return fmt.Sprintf("Email: %s   |   Tel: %s", nonEmpty(c.Email, "—"), nonEmpty(c.ContactNo, "—"))
}

func moneyOrDash(v *decimal.Decimal) string {
	if v == nil {
		return "—"
	}
	return FormatMoney(*v)
}

func percentOrDash(v *decimal.Decimal) string {
	if v == nil {
		return "—"
	}
	return v.StringFixed(2) + "%"
}

// FormatMoney formatea con puntos de miles y coma decimal: 1234567.5 -> "$1.234.567,50".
func FormatMoney(v decimal.Decimal) string {
	s := v.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	var b strings.Builder
	if v.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(intPart[i])
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
