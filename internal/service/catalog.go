package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/solenne/boutique/internal/core"
	"github.com/solenne/boutique/internal/domain/model"
)

// CatalogService exposes the product catalog to the storefront and the
// curation console.
type CatalogService struct {
	products core.ProductRepository
}

// NewCatalogService constructs a new CatalogService.
func NewCatalogService(products core.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// AddPiece adds a catalog entry. Curation console only.
func (s *CatalogService) AddPiece(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, errors.New("create product request is required")
	}
	return s.products.Create(ctx, req)
}

// GetPiece retrieves a single catalog entry.
func (s *CatalogService) GetPiece(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, errors.New("product ID is required")
	}
	return s.products.GetByID(ctx, id)
}

// ListPieces retrieves catalog entries with pagination.
func (s *CatalogService) ListPieces(ctx context.Context, limit, offset int) ([]*model.Product, error) {
	return s.products.List(ctx, limit, offset)
}

// SetAvailability marks a piece as available or withdrawn.
func (s *CatalogService) SetAvailability(ctx context.Context, id string, available bool) error {
	if id == "" {
		return errors.New("product ID is required")
	}
	if err := s.products.SetAvailability(ctx, id, available); err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	return nil
}
