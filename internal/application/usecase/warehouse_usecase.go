package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso para bodegas y la consulta de su stock.
type WarehouseUseCase struct {
	repo   repository.WarehouseRepository
	ledger repository.LedgerRepository
}

// NewWarehouseUseCase construye el caso de uso. ledger solo se usa para lectura.
func NewWarehouseUseCase(repo repository.WarehouseRepository, ledger repository.LedgerRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, ledger: ledger}
}

// Create crea una nueva bodega.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.WarehouseRequest) (*dto.WarehouseResponse, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}
	w := &entity.Warehouse{Name: in.Name}
	if err := uc.repo.Create(ctx, w); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, &domain.Error{Kind: domain.ErrDuplicate, Message: fmt.Sprintf("ya existe la bodega %q", in.Name)}
		}
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id int64) (*dto.WarehouseResponse, error) {
	w, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// Update renombra una bodega.
func (uc *WarehouseUseCase) Update(ctx context.Context, id int64, in dto.WarehouseRequest) (*dto.WarehouseResponse, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}
	w := &entity.Warehouse{ID: id, Name: in.Name}
	if err := uc.repo.Update(ctx, w); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.NotFound("bodega no encontrada")
		case errors.Is(err, domain.ErrDuplicate):
			return nil, &domain.Error{Kind: domain.ErrDuplicate, Message: fmt.Sprintf("ya existe la bodega %q", in.Name)}
		}
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, opts dto.PaginationOptions) (*dto.WarehouseListResponse, error) {
	p := dto.CalculatePagination(opts)
	list, total, err := uc.repo.List(ctx, p.Limit, p.Skip)
	if err != nil {
		return nil, err
	}
	data := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		data = append(data, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Meta: dto.Meta{Total: total, Page: p.Page, Limit: p.Limit},
		Data: data,
	}, nil
}

// Stock lista el stock por producto de una bodega.
func (uc *WarehouseUseCase) Stock(ctx context.Context, id int64) ([]dto.WarehouseStockResponse, error) {
	if _, err := uc.find(ctx, id); err != nil {
		return nil, err
	}
	rows, err := uc.ledger.ListByWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WarehouseStockResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.WarehouseStockResponse{
			ProductID: r.ProductID,
			Name:      r.ProductName,
			Brand:     r.ProductBrand,
			Quantity:  r.Quantity,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out, nil
}

func (uc *WarehouseUseCase) find(ctx context.Context, id int64) (*entity.Warehouse, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.NotFound("bodega no encontrada")
	}
	return w, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
