package service

import (
	"context"
	"fmt"
	"strings"

	"qr-table-service/internal/models"
	"qr-table-service/internal/store"
	"qr-table-service/internal/util"

	"go.uber.org/zap"
)

// CatalogService manages the menu: categories and products.
type CatalogService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store) *CatalogService {
	return &CatalogService{store: store, logger: util.GetLogger()}
}

// ListCategories returns active categories in menu order.
func (s *CatalogService) ListCategories(ctx context.Context, restaurantID string) ([]models.Category, error) {
	return s.store.GetCategories(ctx, restaurantID)
}

// ListAllCategories returns every category for the admin screen.
func (s *CatalogService) ListAllCategories(ctx context.Context, restaurantID string) ([]models.Category, error) {
	return s.store.GetAllCategories(ctx, restaurantID)
}

// CreateCategory validates and inserts a category.
func (s *CatalogService) CreateCategory(ctx context.Context, c *models.Category) error {
	if err := validateCategory(c); err != nil {
		return err
	}
	return s.store.CreateCategory(ctx, c)
}

// UpdateCategory validates and updates a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, c *models.Category) error {
	if err := validateCategory(c); err != nil {
		return err
	}
	return s.store.UpdateCategory(ctx, c)
}

// DeleteCategory hard-deletes a category, refusing while products still
// reference it.
func (s *CatalogService) DeleteCategory(ctx context.Context, restaurantID, categoryID string) error {
	count, err := s.store.CountProductsInCategory(ctx, restaurantID, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: category still has %d products", models.ErrValidation, count)
	}
	return s.store.DeleteCategory(ctx, restaurantID, categoryID)
}

// ListProducts returns available products of a category in menu order, or
// every product of the restaurant when categoryID is empty.
func (s *CatalogService) ListProducts(ctx context.Context, restaurantID, categoryID string) ([]models.Product, error) {
	if categoryID == "" {
		return s.store.GetAllProducts(ctx, restaurantID)
	}
	return s.store.GetProductsByCategory(ctx, restaurantID, categoryID)
}

// GetCategory retrieves one category.
func (s *CatalogService) GetCategory(ctx context.Context, restaurantID, categoryID string) (*models.Category, error) {
	return s.store.GetCategoryByID(ctx, restaurantID, categoryID)
}

// GetProduct retrieves one product.
func (s *CatalogService) GetProduct(ctx context.Context, restaurantID, productID string) (*models.Product, error) {
	return s.store.GetProductByID(ctx, restaurantID, productID)
}

// CreateProduct validates and inserts a product.
func (s *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := s.validateProduct(ctx, p); err != nil {
		return err
	}
	return s.store.CreateProduct(ctx, p)
}

// UpdateProduct validates and updates a product.
func (s *CatalogService) UpdateProduct(ctx context.Context, p *models.Product) error {
	if err := s.validateProduct(ctx, p); err != nil {
		return err
	}
	return s.store.UpdateProduct(ctx, p)
}

// DeleteProduct removes a product from the catalog. Historical orders keep
// their snapshotted name and price.
func (s *CatalogService) DeleteProduct(ctx context.Context, restaurantID, productID string) error {
	return s.store.DeleteProduct(ctx, restaurantID, productID)
}

func validateCategory(c *models.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category name is required", models.ErrValidation)
	}
	if c.SortOrder < 0 {
		return fmt.Errorf("%w: sort order must not be negative", models.ErrValidation)
	}
	return nil
}

func (s *CatalogService) validateProduct(ctx context.Context, p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", models.ErrValidation)
	}
	if p.PriceCents <= 0 {
		return fmt.Errorf("%w: price must be positive", models.ErrValidation)
	}
	if p.SortOrder < 0 {
		return fmt.Errorf("%w: sort order must not be negative", models.ErrValidation)
	}
	if _, err := s.store.GetCategoryByID(ctx, p.RestaurantID, p.CategoryID); err != nil {
		return err
	}
	return nil
}
