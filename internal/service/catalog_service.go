package service

import (
	"context"

	"luminapos/internal/dto"
	"luminapos/internal/model"
	"luminapos/internal/repository"

	"github.com/google/uuid"
)

// CatalogService is the read side of the product catalog used by the register.
type CatalogService interface {
	List(ctx context.Context) ([]dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
}

type catalogService struct {
	products repository.ProductRepository
}

func NewCatalogService(products repository.ProductRepository) CatalogService {
	return &catalogService{products: products}
}

func (s *catalogService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	items, err := s.products.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(items))
	for i := range items {
		out = append(out, toProductResponse(&items[i]))
	}
	return out, nil
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(p)
	return &resp, nil
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:          p.ID.String(),
		Barcode:     p.Barcode,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		HasVariants: p.HasVariants,
	}
	for _, v := range p.Variants {
		resp.Variants = append(resp.Variants, dto.VariantResponse{
			ID:    v.ID.String(),
			Name:  v.Name,
			Price: v.Price,
			Stock: v.Stock,
		})
	}
	return resp
}
