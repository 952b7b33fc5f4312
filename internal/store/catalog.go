package store

import (
	"context"
	"database/sql"
	"fmt"

	"qr-table-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetCategories retrieves active categories ordered by sort order
func (s *Store) GetCategories(ctx context.Context, restaurantID string) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories,
		"SELECT * FROM categories WHERE restaurant_id = $1 AND is_active = TRUE ORDER BY sort_order",
		restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return categories, nil
}

// GetAllCategories retrieves every category, active or not
func (s *Store) GetAllCategories(ctx context.Context, restaurantID string) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories,
		"SELECT * FROM categories WHERE restaurant_id = $1 ORDER BY sort_order", restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by id
func (s *Store) GetCategoryByID(ctx context.Context, restaurantID, categoryID string) (*models.Category, error) {
	var c models.Category
	err := s.db.GetContext(ctx, &c,
		"SELECT * FROM categories WHERE restaurant_id = $1 AND id = $2", restaurantID, categoryID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %s: %w", categoryID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return &c, nil
}

// CreateCategory inserts a category
func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO categories (restaurant_id, name, icon, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, c, query,
		c.RestaurantID, c.Name, c.Icon, c.SortOrder, c.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// UpdateCategory updates a category
func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $1, icon = $2, sort_order = $3, is_active = $4
		WHERE restaurant_id = $5 AND id = $6`,
		c.Name, c.Icon, c.SortOrder, c.IsActive, c.RestaurantID, c.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %s: %w", c.ID, models.ErrNotFound)
	}
	return nil
}

// CountProductsInCategory counts products referencing a category
func (s *Store) CountProductsInCategory(ctx context.Context, restaurantID, categoryID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM products WHERE restaurant_id = $1 AND category_id = $2",
		restaurantID, categoryID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return count, nil
}

// DeleteCategory hard-deletes a category. Callers must have verified that no
// products reference it.
func (s *Store) DeleteCategory(ctx context.Context, restaurantID, categoryID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM categories WHERE restaurant_id = $1 AND id = $2", restaurantID, categoryID)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %s: %w", categoryID, models.ErrNotFound)
	}
	return nil
}

// GetProductsByCategory retrieves available products of one category
func (s *Store) GetProductsByCategory(ctx context.Context, restaurantID, categoryID string) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, `
		SELECT * FROM products
		WHERE restaurant_id = $1 AND category_id = $2 AND is_available = TRUE
		ORDER BY sort_order`,
		restaurantID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return products, nil
}

// GetAllProducts retrieves every product, available or not
func (s *Store) GetAllProducts(ctx context.Context, restaurantID string) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE restaurant_id = $1 ORDER BY sort_order", restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return products, nil
}

// GetProductByID retrieves a product by id
func (s *Store) GetProductByID(ctx context.Context, restaurantID, productID string) (*models.Product, error) {
	var p models.Product
	err := s.db.GetContext(ctx, &p,
		"SELECT * FROM products WHERE restaurant_id = $1 AND id = $2", restaurantID, productID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %s: %w", productID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return &p, nil
}

// GetProductsByIDs retrieves multiple products by id
func (s *Store) GetProductsByIDs(ctx context.Context, restaurantID string, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In(
		"SELECT * FROM products WHERE restaurant_id = ? AND id IN (?)", restaurantID, ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return products, nil
}

// CreateProduct inserts a product
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (restaurant_id, category_id, name, description, price_cents, image_url, is_available, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := s.db.GetContext(ctx, p, query,
		p.RestaurantID, p.CategoryID, p.Name, p.Description, p.PriceCents,
		p.ImageURL, p.IsAvailable, p.SortOrder)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// UpdateProduct updates a product
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET category_id = $1, name = $2, description = $3, price_cents = $4,
		    image_url = $5, is_available = $6, sort_order = $7, updated_at = NOW()
		WHERE restaurant_id = $8 AND id = $9`,
		p.CategoryID, p.Name, p.Description, p.PriceCents,
		p.ImageURL, p.IsAvailable, p.SortOrder, p.RestaurantID, p.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %s: %w", p.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteProduct removes a product from the catalog. Snapshotted order items
// are unaffected.
func (s *Store) DeleteProduct(ctx context.Context, restaurantID, productID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM products WHERE restaurant_id = $1 AND id = $2", restaurantID, productID)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %s: %w", productID, models.ErrNotFound)
	}
	return nil
}
