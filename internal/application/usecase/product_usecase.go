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

// ProductUseCase casos de uso del catálogo de productos. AvailableQty y Sell no se escriben
// aquí: los mueven los pedidos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto con contadores en 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}
	p := &entity.Product{
		Name:         in.Name,
		Brand:        in.Brand,
		Unit:         in.Unit,
		PurchaseCost: in.PurchaseCost.Round(2),
		RemainderQty: in.RemainderQty,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, &domain.Error{Kind: domain.ErrDuplicate, Message: fmt.Sprintf("ya existe %q de la marca %q", in.Name, in.Brand)}
		}
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto no encontrado")
	}
	return toProductResponse(p), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, opts dto.PaginationOptions) (*dto.ProductListResponse, error) {
	pg := dto.CalculatePagination(opts)
	list, total, err := uc.repo.List(ctx, pg.Limit, pg.Skip)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		data = append(data, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Meta: dto.Meta{Total: total, Page: pg.Page, Limit: pg.Limit},
		Data: data,
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Brand:        p.Brand,
		Unit:         p.Unit,
		PurchaseCost: p.PurchaseCost,
		RemainderQty: p.RemainderQty,
		AvailableQty: p.AvailableQty,
		Sell:         p.Sell,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
