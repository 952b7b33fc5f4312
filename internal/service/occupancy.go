package service

import (
	"context"

	"qr-table-service/internal/models"
	"qr-table-service/internal/store"
	"qr-table-service/internal/util"

	"go.uber.org/zap"
)

// OccupancyService answers table liveness queries for staff views. The
// admission control itself lives in the order creation transaction; this
// service only reads the occupancy pointers.
type OccupancyService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewOccupancyService creates a new occupancy service
func NewOccupancyService(store *store.Store) *OccupancyService {
	return &OccupancyService{store: store, logger: util.GetLogger()}
}

// IsTableOccupied reports whether a table currently has an active order.
func (s *OccupancyService) IsTableOccupied(ctx context.Context, restaurantID, tableNumber string) (bool, error) {
	return s.store.IsTableOccupied(ctx, restaurantID, tableNumber)
}

// ListOccupiedTables returns the active order summary per occupied table,
// used by the staff overview screens.
func (s *OccupancyService) ListOccupiedTables(ctx context.Context, restaurantID string) (map[string]models.OrderSummary, error) {
	return s.store.ListOccupiedTables(ctx, restaurantID)
}
