package store

import (
	"context"
	"database/sql"
	"fmt"

	"qr-table-service/internal/models"
)

// CreateTableCall inserts a pending service request
func (s *Store) CreateTableCall(ctx context.Context, call *models.TableCall) error {
	query := `
		INSERT INTO table_calls (restaurant_id, table_number, order_id, order_number, reason, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, call, query,
		call.RestaurantID, call.TableNumber, call.OrderID, call.OrderNumber,
		call.Reason, call.Message, models.CallPending)
	if err != nil {
		return fmt.Errorf("failed to create table call: %w", err)
	}
	call.Status = models.CallPending
	return nil
}

// GetPendingTableCalls retrieves unresolved calls, newest first
func (s *Store) GetPendingTableCalls(ctx context.Context, restaurantID string) ([]models.TableCall, error) {
	var calls []models.TableCall
	err := s.db.SelectContext(ctx, &calls, `
		SELECT * FROM table_calls
		WHERE restaurant_id = $1 AND status = $2
		ORDER BY created_at DESC`,
		restaurantID, models.CallPending)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return calls, nil
}

// AttendTableCall resolves a pending call, attributing it to exactly one
// staff member. The status guard in the WHERE clause makes resolution
// first-writer-wins under concurrent attends.
func (s *Store) AttendTableCall(ctx context.Context, restaurantID, callID, userID string) (*models.TableCall, error) {
	var call models.TableCall
	err := s.db.GetContext(ctx, &call, `
		UPDATE table_calls
		SET status = $1, attended_by = $2, attended_at = NOW()
		WHERE restaurant_id = $3 AND id = $4 AND status = $5
		RETURNING *`,
		models.CallAttended, userID, restaurantID, callID, models.CallPending)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("pending table call %s: %w", callID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return &call, nil
}
