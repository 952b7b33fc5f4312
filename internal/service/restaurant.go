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

// RestaurantService manages the tenant profile.
type RestaurantService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewRestaurantService creates a new restaurant service
func NewRestaurantService(store *store.Store) *RestaurantService {
	return &RestaurantService{store: store, logger: util.GetLogger()}
}

// GetRestaurant retrieves the tenant profile.
func (s *RestaurantService) GetRestaurant(ctx context.Context, restaurantID string) (*models.Restaurant, error) {
	return s.store.GetRestaurant(ctx, restaurantID)
}

// UpdateRestaurant validates and persists profile changes.
func (s *RestaurantService) UpdateRestaurant(ctx context.Context, r *models.Restaurant) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: restaurant name is required", models.ErrValidation)
	}
	if r.Lat < -90 || r.Lat > 90 || r.Lng < -180 || r.Lng > 180 {
		return fmt.Errorf("%w: invalid coordinates", models.ErrValidation)
	}
	if err := s.store.UpdateRestaurant(ctx, r); err != nil {
		return err
	}
	s.logger.Info("Restaurant profile updated", zap.String("restaurant_id", r.ID))
	return nil
}
