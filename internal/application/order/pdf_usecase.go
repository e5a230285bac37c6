package order

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// PDFUseCase genera el PDF imprimible de un pedido a partir de su detalle.
type PDFUseCase struct {
	orderRepo repository.OrderRepository
	generator PDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(orderRepo repository.OrderRepository, generator PDFGenerator) *PDFUseCase {
	return &PDFUseCase{orderRepo: orderRepo, generator: generator}
}

// GeneratePDF devuelve los bytes del PDF y el invoiceId (para el nombre del archivo).
func (uc *PDFUseCase) GeneratePDF(ctx context.Context, orderID int64) ([]byte, string, error) {
	detail, err := uc.orderRepo.GetDetail(ctx, orderID)
	if err != nil {
		return nil, "", domain.Internal(fmt.Errorf("obtener pedido: %w", err), "fallo al generar el PDF")
	}
	if detail == nil {
		return nil, "", domain.NotFound("pedido no encontrado")
	}
	doc, err := uc.generator.GenerateOrderPDF(ctx, detail)
	if err != nil {
		return nil, "", domain.Internal(err, "fallo al generar el PDF")
	}
	return doc, detail.InvoiceID, nil
}
