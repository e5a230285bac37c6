package order

import (
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	domainorder "github.com/jhoicas/Pedidos-api/internal/domain/order"
)

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	products := make([]dto.OrderProductResponse, 0, len(o.Products))
	for _, l := range o.Products {
		products = append(products, toLineResponse(l))
	}
	return &dto.OrderResponse{
		ID:          o.ID,
		InvoiceID:   o.InvoiceID,
		WarehouseID: o.WarehouseID,
		CustomerID:  o.CustomerID,
		InchargeID:  o.InchargeID,
		CreatedByID: o.CreatedByID,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Products:    products,
		Totals:      toTotals(domainorder.CalculateTotals(o.Products)),
	}
}

func toLineResponse(l entity.OrderProduct) dto.OrderProductResponse {
	return dto.OrderProductResponse{
		ID:            l.ID,
		OrderID:       l.OrderID,
		ProductID:     l.ProductID,
		Quantity:      l.Quantity,
		Price:         l.Price,
		TexPercentage: l.TexPercentage,
	}
}

func toTotals(t domainorder.Totals) dto.TotalsResponse {
	return dto.TotalsResponse{Subtotal: t.Subtotal, Tax: t.Tax, Total: t.Total}
}

func toContact(c entity.Contact) dto.ContactResponse {
	return dto.ContactResponse{ID: c.ID, Name: c.Name, Email: c.Email, ContactNo: c.ContactNo}
}

func toDetailResponse(d *entity.OrderDetail) *dto.OrderDetailResponse {
	lines := make([]dto.OrderLineDetailResponse, 0, len(d.Lines))
	raw := make([]entity.OrderProduct, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, dto.OrderLineDetailResponse{
			OrderProductResponse: toLineResponse(l.OrderProduct),
			Product:              dto.ProductRefResponse{ID: l.ProductID, Name: l.ProductName, Brand: l.ProductBrand},
		})
		raw = append(raw, l.OrderProduct)
	}
	return &dto.OrderDetailResponse{
		ID:          d.ID,
		InvoiceID:   d.InvoiceID,
		WarehouseID: d.WarehouseID,
		CustomerID:  d.CustomerID,
		InchargeID:  d.InchargeID,
		CreatedByID: d.CreatedByID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Warehouse:   dto.NameResponse{Name: d.WarehouseName},
		Customer:    toContact(d.Customer),
		Incharge:    toContact(d.Incharge),
		CreatedBy:   toContact(d.CreatedBy),
		Products:    lines,
		Totals:      toTotals(domainorder.CalculateTotals(raw)),
	}
}

func toSummaryResponse(s *entity.OrderSummary) dto.OrderSummaryResponse {
	names := s.ProductNames
	if names == nil {
		names = []string{}
	}
	return dto.OrderSummaryResponse{
		ID:          s.ID,
		InvoiceID:   s.InvoiceID,
		WarehouseID: s.WarehouseID,
		CustomerID:  s.CustomerID,
		InchargeID:  s.InchargeID,
		CreatedByID: s.CreatedByID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Warehouse:   dto.NameResponse{Name: s.WarehouseName},
		Customer:    dto.NameResponse{Name: s.CustomerName},
		Incharge:    dto.NameResponse{Name: s.InchargeName},
		CreatedBy:   dto.NameResponse{Name: s.CreatedByName},
		Products:    names,
	}
}
