package order

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// List pedidos paginados con búsqueda libre y filtros de igualdad (combinados con AND).
func (uc *UseCase) List(ctx context.Context, q dto.OrderListQuery) (*dto.OrderListResponse, error) {
	p := dto.CalculatePagination(q.Pagination)
	if !slices.Contains(repository.OrderSortableFields, p.SortBy) {
		return nil, domain.Invalid("sortBy no permitido: %s", p.SortBy)
	}
	equals := make(map[string]string, len(q.Filters))
	for field, value := range q.Filters {
		if !slices.Contains(repository.OrderFilterableFields, field) {
			return nil, domain.Invalid("filtro no permitido: %s", field)
		}
		if value != "" {
			equals[field] = value
		}
	}

	list, total, err := uc.orderRepo.List(ctx, repository.OrderFilter{
		SearchTerm: strings.TrimSpace(q.SearchTerm),
		Equals:     equals,
		Limit:      p.Limit,
		Offset:     p.Skip,
		SortBy:     p.SortBy,
		SortOrder:  p.SortOrder,
	})
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("listar pedidos: %w", err), "fallo al listar pedidos")
	}

	data := make([]dto.OrderSummaryResponse, 0, len(list))
	for _, s := range list {
		data = append(data, toSummaryResponse(s))
	}
	return &dto.OrderListResponse{
		Meta: dto.Meta{Total: total, Page: p.Page, Limit: p.Limit},
		Data: data,
	}, nil
}

// GetByID detalle completo del pedido; ErrNotFound si no existe.
func (uc *UseCase) GetByID(ctx context.Context, id int64) (*dto.OrderDetailResponse, error) {
	detail, err := uc.orderRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("obtener pedido: %w", err), "fallo al obtener el pedido")
	}
	if detail == nil {
		return nil, domain.NotFound("pedido no encontrado")
	}
	return toDetailResponse(detail), nil
}
