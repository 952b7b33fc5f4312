package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"qr-table-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateOrder persists a new order with its items and claims the table in a
// single transaction. The table_occupancy primary key is the admission
// control: a concurrent create for the same table loses the conflict and the
// whole transaction rolls back with ErrTableOccupied, so double-booking is
// impossible regardless of request interleaving.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (restaurant_id, order_number, table_number, customer_name,
		                    status, total_cents, notes, created_by, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, received_at, created_at, updated_at`

	err = tx.QueryRowxContext(ctx, query,
		order.RestaurantID, order.OrderNumber, order.TableNumber, order.CustomerName,
		order.Status, order.TotalCents, order.Notes, order.CreatedBy).
		Scan(&order.ID, &order.ReceivedAt, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO table_occupancy (restaurant_id, table_number, order_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (restaurant_id, table_number) DO NOTHING`,
		order.RestaurantID, order.TableNumber, order.ID)
	if err != nil {
		return fmt.Errorf("failed to claim table: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("table %s: %w", order.TableNumber, models.ErrTableOccupied)
	}

	for i := range items {
		items[i].OrderID = order.ID
		if err := insertOrderItem(ctx, tx, &items[i]); err != nil {
			return err
		}
	}
	order.Items = items

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

func insertOrderItem(ctx context.Context, tx *sqlx.Tx, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, product_name, product_price_cents,
		                         quantity, subtotal_cents, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := tx.QueryRowxContext(ctx, query,
		item.OrderID, item.ProductID, item.ProductName, item.ProductPriceCents,
		item.Quantity, item.SubtotalCents, item.Notes).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order item %s: %w", item.ProductName, err)
	}
	return nil
}

// GetOrderByID retrieves an order with its items
func (s *Store) GetOrderByID(ctx context.Context, restaurantID, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE restaurant_id = $1 AND id = $2", restaurantID, orderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	if err := s.loadItems(ctx, []*models.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrders retrieves orders newest first, optionally restricted to a status
// subset. A nil or empty filter returns all orders.
func (s *Store) GetOrders(ctx context.Context, restaurantID string, statuses []models.OrderStatus) ([]models.Order, error) {
	var (
		orders []models.Order
		err    error
	)

	if len(statuses) == 0 {
		err = s.db.SelectContext(ctx, &orders,
			"SELECT * FROM orders WHERE restaurant_id = $1 ORDER BY created_at DESC", restaurantID)
	} else {
		var query string
		var args []interface{}
		query, args, err = sqlx.In(
			"SELECT * FROM orders WHERE restaurant_id = ? AND status IN (?) ORDER BY created_at DESC",
			restaurantID, statuses)
		if err != nil {
			return nil, err
		}
		query = s.db.Rebind(query)
		err = s.db.SelectContext(ctx, &orders, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	refs := make([]*models.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := s.loadItems(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetActiveOrders retrieves orders currently holding a table
func (s *Store) GetActiveOrders(ctx context.Context, restaurantID string) ([]models.Order, error) {
	return s.GetOrders(ctx, restaurantID, models.ActiveStatuses)
}

// loadItems attaches item rows to the given orders in one query.
func (s *Store) loadItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	byID := make(map[string]*models.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Items = []models.OrderItem{}
	}

	query, args, err := sqlx.In(
		"SELECT * FROM order_items WHERE order_id IN (?) ORDER BY created_at", ids)
	if err != nil {
		return err
	}
	query = s.db.Rebind(query)

	var items []models.OrderItem
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	for _, item := range items {
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return nil
}

// TransitionOrder applies a lifecycle transition under a row lock. The status
// write, the once-only timestamp stamp, the actor attribution and the
// occupancy release on terminal states commit together; no reader ever sees
// a partial transition.
//
// The status timestamp columns use COALESCE so re-entering a state (a waiter
// moving served back to ready and forward again) never overwrites the first
// recorded time.
func (s *Store) TransitionOrder(ctx context.Context, restaurantID, orderID string, newStatus models.OrderStatus, actorID, reason string) (*models.Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	var current models.Order
	err = tx.GetContext(ctx, &current,
		"SELECT * FROM orders WHERE restaurant_id = $1 AND id = $2 FOR UPDATE",
		restaurantID, orderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	if err := models.CheckTransition(current.Status, newStatus); err != nil {
		return nil, fmt.Errorf("%s -> %s: %w", current.Status, newStatus, err)
	}

	set := "status = $1, updated_at = NOW()"
	args := []interface{}{newStatus}

	switch newStatus {
	case models.StatusInKitchen:
		set += ", in_kitchen_at = COALESCE(in_kitchen_at, NOW())"
		if actorID != "" {
			args = append(args, actorID)
			set += fmt.Sprintf(", chef_id = $%d", len(args))
		}
	case models.StatusReady:
		set += ", ready_at = COALESCE(ready_at, NOW())"
	case models.StatusServed:
		set += ", served_at = COALESCE(served_at, NOW())"
		if actorID != "" {
			args = append(args, actorID)
			set += fmt.Sprintf(", waiter_id = $%d", len(args))
		}
	case models.StatusPaid:
		set += ", paid_at = COALESCE(paid_at, NOW())"
		if actorID != "" {
			args = append(args, actorID)
			set += fmt.Sprintf(", cashier_id = $%d", len(args))
		}
	case models.StatusCancelled:
		set += ", cancelled_at = COALESCE(cancelled_at, NOW())"
		if actorID != "" {
			args = append(args, actorID)
			set += fmt.Sprintf(", cancelled_by = $%d", len(args))
		}
		args = append(args, reason)
		set += fmt.Sprintf(", cancellation_reason = $%d", len(args))
	case models.StatusReceived:
		set += ", received_at = COALESCE(received_at, NOW())"
	}

	args = append(args, restaurantID, orderID)
	query := fmt.Sprintf("UPDATE orders SET %s WHERE restaurant_id = $%d AND id = $%d",
		set, len(args)-1, len(args))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if newStatus.Terminal() {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM table_occupancy WHERE restaurant_id = $1 AND order_id = $2",
			restaurantID, orderID)
		if err != nil {
			return nil, fmt.Errorf("failed to release table: %w", err)
		}
	}

	var updated models.Order
	err = tx.GetContext(ctx, &updated,
		"SELECT * FROM orders WHERE restaurant_id = $1 AND id = $2", restaurantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	if err := s.loadItems(ctx, []*models.Order{&updated}); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ReplaceOrderItems swaps the entire item set of an editable order and
// recomputes the total in one transaction, so readers observe either the old
// committed set or the new one, never a partial mix.
func (s *Store) ReplaceOrderItems(ctx context.Context, restaurantID, orderID string, items []models.OrderItem) (*models.Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	var current models.Order
	err = tx.GetContext(ctx, &current,
		"SELECT * FROM orders WHERE restaurant_id = $1 AND id = $2 FOR UPDATE",
		restaurantID, orderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	if !current.Status.Editable() {
		return nil, fmt.Errorf("order %s in status %s: %w", orderID, current.Status, models.ErrOrderNotEditable)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM order_items WHERE order_id = $1", orderID); err != nil {
		return nil, fmt.Errorf("failed to clear order items: %w", err)
	}

	var total int64
	for i := range items {
		items[i].OrderID = orderID
		total += items[i].SubtotalCents
		if err := insertOrderItem(ctx, tx, &items[i]); err != nil {
			return nil, err
		}
	}

	err = tx.GetContext(ctx, &current, `
		UPDATE orders SET total_cents = $1, updated_at = NOW()
		WHERE restaurant_id = $2 AND id = $3
		RETURNING *`,
		total, restaurantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to update order total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	current.Items = items
	return &current, nil
}

// IsTableOccupied answers the admission-control query with an O(1) pointer
// lookup instead of scanning active orders.
func (s *Store) IsTableOccupied(ctx context.Context, restaurantID, tableNumber string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM table_occupancy WHERE restaurant_id = $1 AND table_number = $2)",
		restaurantID, tableNumber)
	if err != nil {
		return false, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return exists, nil
}

// ListOccupiedTables returns the active order summary per occupied table.
func (s *Store) ListOccupiedTables(ctx context.Context, restaurantID string) (map[string]models.OrderSummary, error) {
	type row struct {
		TableNumber string             `db:"table_number"`
		OrderID     string             `db:"order_id"`
		OrderNumber string             `db:"order_number"`
		Status      models.OrderStatus `db:"status"`
		TotalCents  int64              `db:"total_cents"`
		ReceivedAt  *time.Time         `db:"received_at"`
	}

	var rows []row
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.table_number, o.id AS order_id, o.order_number, o.status, o.total_cents, o.received_at
		FROM table_occupancy t
		JOIN orders o ON o.id = t.order_id
		WHERE t.restaurant_id = $1
		ORDER BY t.table_number`,
		restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	result := make(map[string]models.OrderSummary, len(rows))
	for _, r := range rows {
		summary := models.OrderSummary{
			OrderID:     r.OrderID,
			OrderNumber: r.OrderNumber,
			TableNumber: r.TableNumber,
			Status:      r.Status,
			TotalCents:  r.TotalCents,
		}
		summary.ReceivedAt = r.ReceivedAt
		result[r.TableNumber] = summary
	}
	return result, nil
}
