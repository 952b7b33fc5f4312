package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"qr-table-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store is the tenant-scoped persistence adapter. Every method takes a
// restaurant id and filters by it; rows of one tenant are never visible to
// another.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetRestaurant retrieves the tenant profile
func (s *Store) GetRestaurant(ctx context.Context, restaurantID string) (*models.Restaurant, error) {
	var r models.Restaurant
	err := s.db.GetContext(ctx, &r, "SELECT * FROM restaurants WHERE id = $1", restaurantID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("restaurant %s: %w", restaurantID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return &r, nil
}

// UpdateRestaurant updates the tenant profile
func (s *Store) UpdateRestaurant(ctx context.Context, r *models.Restaurant) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE restaurants
		SET name = $1, slogan = $2, description = $3, address = $4, phone = $5,
		    opening_hours = $6, lat = $7, lng = $8, logo_url = $9, updated_at = NOW()
		WHERE id = $10`,
		r.Name, r.Slogan, r.Description, r.Address, r.Phone,
		r.OpeningHours, r.Lat, r.Lng, r.LogoURL, r.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("restaurant %s: %w", r.ID, models.ErrNotFound)
	}
	return nil
}

// GetUsers retrieves all staff accounts of a restaurant
func (s *Store) GetUsers(ctx context.Context, restaurantID string) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users,
		"SELECT * FROM users WHERE restaurant_id = $1 ORDER BY username", restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return users, nil
}

// GetUserByID retrieves a user by id
func (s *Store) GetUserByID(ctx context.Context, restaurantID, userID string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u,
		"SELECT * FROM users WHERE restaurant_id = $1 AND id = $2", restaurantID, userID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by its tenant-unique username
func (s *Store) GetUserByUsername(ctx context.Context, restaurantID, username string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u,
		"SELECT * FROM users WHERE restaurant_id = $1 AND username = $2", restaurantID, username)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", username, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return &u, nil
}

// CreateUser inserts a staff account
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (restaurant_id, username, password_hash, full_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := s.db.GetContext(ctx, u, query,
		u.RestaurantID, u.Username, u.PasswordHash, u.FullName, u.Role, u.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser updates a staff account. An empty PasswordHash keeps the stored one.
func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET username = $1, full_name = $2, role = $3, is_active = $4,
		    password_hash = CASE WHEN $5 = '' THEN password_hash ELSE $5 END,
		    updated_at = NOW()
		WHERE restaurant_id = $6 AND id = $7`,
		u.Username, u.FullName, u.Role, u.IsActive, u.PasswordHash, u.RestaurantID, u.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", u.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteUser removes a staff account
func (s *Store) DeleteUser(ctx context.Context, restaurantID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM users WHERE restaurant_id = $1 AND id = $2", restaurantID, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	return nil
}

// IsEventProcessed checks if a broker event has been consumed already
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks a broker event as consumed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
