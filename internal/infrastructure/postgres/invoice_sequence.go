package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.InvoiceSequence = (*InvoiceSequence)(nil)

// InvoiceSequence genera invoiceIds PREFIX-YYYYMMDD-NNNN con un contador por día.
// El upsert toma el lock de la fila del día, así que dos llamadas nunca reciben el mismo número.
type InvoiceSequence struct {
	q      Querier
	prefix string
	now    func() time.Time
}

// NewInvoiceSequence construye el generador. Se usa con el pool: el número se consume aunque
// el pedido luego falle (puede haber huecos, nunca duplicados).
func NewInvoiceSequence(q Querier, prefix string) *InvoiceSequence {
	if prefix == "" {
		prefix = "ORD"
	}
	return &InvoiceSequence{q: q, prefix: prefix, now: time.Now}
}

// Next reserva el siguiente número del día y devuelve el identificador.
func (s *InvoiceSequence) Next(ctx context.Context) (string, error) {
	day := s.now().UTC()
	query := `
		INSERT INTO order_sequences (day, last_number)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET last_number = order_sequences.last_number + 1
		RETURNING last_number`
	var n int64
	if err := s.q.QueryRow(ctx, query, day).Scan(&n); err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return FormatInvoiceID(s.prefix, day, n), nil
}

// FormatInvoiceID arma el identificador; el número usa al menos 4 dígitos.
func FormatInvoiceID(prefix string, day time.Time, n int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day.Format("20060102"), n)
}
