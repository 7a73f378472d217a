package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/recoai/backend/internal/domain"
)

// ProductService manages the product catalog
type ProductService struct {
	products domain.ProductRepository
}

// NewProductService creates a product service
func NewProductService(products domain.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// List returns every product
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// Create adds a product to the catalog
func (s *ProductService) Create(ctx context.Context, req *domain.CreateProductRequest) (*domain.Product, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrInvalidRequest)
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidRequest)
	}

	product := &domain.Product{
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Description: req.Description,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
