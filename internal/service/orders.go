package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"qr-table-service/internal/broker"
	"qr-table-service/internal/models"
	"qr-table-service/internal/redisclient"
	"qr-table-service/internal/store"
	"qr-table-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order composition and pricing: converting a customer
// cart into a persisted order and committing staged item edits.
type OrderService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
) *OrderService {
	return &OrderService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CartItem is one line of the customer cart submitted from the menu.
type CartItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Notes     string `json:"notes,omitempty"`
}

// CreateOrderRequest represents a request to create an order from the table
// QR flow.
type CreateOrderRequest struct {
	TableNumber  string     `json:"table_number" binding:"required"`
	CustomerName string     `json:"customer_name,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Items        []CartItem `json:"items" binding:"required,min=1"`
}

// CreateOrder converts the cart into a persisted order: validates the items
// against the catalog, snapshots product name and price, computes the total
// and claims the table. A table with an active order rejects the creation
// with ErrTableOccupied.
func (s *OrderService) CreateOrder(ctx context.Context, restaurantID string, req *CreateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderCreateLatency.Observe(time.Since(start).Seconds())
	}()

	if strings.TrimSpace(req.TableNumber) == "" {
		util.OrdersFailedTotal.WithLabelValues("invalid_input").Inc()
		return nil, fmt.Errorf("%w: table number is required", models.ErrValidation)
	}

	items, total, err := s.buildItems(ctx, restaurantID, req.Items)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	// The per-table lock narrows the window in which two customers can race
	// past the occupancy pre-check; the occupancy row conflict inside
	// CreateOrder is the authoritative guard either way.
	locked, err := s.redis.AcquireTableLock(ctx, restaurantID, req.TableNumber)
	if err != nil {
		s.logger.Warn("Table lock unavailable, relying on store guard", zap.Error(err))
	} else if !locked {
		util.TableOccupiedRejections.Inc()
		return nil, fmt.Errorf("table %s: %w", req.TableNumber, models.ErrTableOccupied)
	} else {
		defer func() {
			if err := s.redis.ReleaseTableLock(context.WithoutCancel(ctx), restaurantID, req.TableNumber); err != nil {
				s.logger.Warn("Failed to release table lock", zap.Error(err))
			}
		}()
	}

	occupied, err := s.store.IsTableOccupied(ctx, restaurantID, req.TableNumber)
	if err != nil {
		return nil, err
	}
	if occupied {
		util.TableOccupiedRejections.Inc()
		return nil, fmt.Errorf("table %s: %w", req.TableNumber, models.ErrTableOccupied)
	}

	order := &models.Order{
		RestaurantID: restaurantID,
		OrderNumber:  GenerateOrderNumber(),
		TableNumber:  req.TableNumber,
		CustomerName: req.CustomerName,
		Status:       models.StatusReceived,
		TotalCents:   total,
		Notes:        req.Notes,
	}

	if err := s.store.CreateOrder(ctx, order, items); err != nil {
		if errors.Is(err, models.ErrTableOccupied) {
			util.TableOccupiedRejections.Inc()
		} else {
			util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		}
		return nil, err
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("table", order.TableNumber),
		zap.Int64("total_cents", order.TotalCents))

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:      uuid.New().String(),
			EventType:    models.EventTypeOrderCreated,
			RestaurantID: restaurantID,
			Timestamp:    time.Now(),
		},
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TableNumber: order.TableNumber,
		TotalCents:  order.TotalCents,
		Items:       itemEventData(order.Items),
	}
	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	s.notifyOrdersChanged(ctx, restaurantID)
	return order, nil
}

// EditOrderItems replaces the persisted item set with the committed working
// copy and recomputes the total. Orders outside the editable window reject
// the edit with ErrOrderNotEditable.
func (s *OrderService) EditOrderItems(ctx context.Context, restaurantID, orderID string, items []models.OrderItem, actorID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.EditOrderItems")
	defer span.End()

	cleaned, err := normalizeItems(items)
	if err != nil {
		return nil, err
	}

	order, err := s.store.ReplaceOrderItems(ctx, restaurantID, orderID, cleaned)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotEditable) {
			util.OrderEditsRejectedTotal.Inc()
		}
		return nil, err
	}

	util.OrderEditsTotal.Inc()
	s.logger.Info("Order items edited",
		zap.String("order_id", orderID),
		zap.String("actor_id", actorID),
		zap.Int64("total_cents", order.TotalCents))

	event := &models.OrderItemsEditedEvent{
		BaseEvent: models.BaseEvent{
			EventID:      uuid.New().String(),
			EventType:    models.EventTypeOrderItemsEdited,
			RestaurantID: restaurantID,
			Timestamp:    time.Now(),
		},
		OrderID:    orderID,
		ActorID:    actorID,
		TotalCents: order.TotalCents,
		Items:      itemEventData(order.Items),
	}
	if err := s.eventPublisher.PublishOrderItemsEdited(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderItemsEdited event", zap.Error(err))
	}

	s.notifyOrdersChanged(ctx, restaurantID)
	return order, nil
}

// EditOrderFromCart resolves a replacement cart against the catalog and
// commits it as the order's new item set. Zero-quantity lines drop the
// product from the order.
func (s *OrderService) EditOrderFromCart(ctx context.Context, restaurantID, orderID string, cart []CartItem, actorID string) (*models.Order, error) {
	kept := make([]CartItem, 0, len(cart))
	for _, line := range cart {
		if line.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative for product %s", models.ErrValidation, line.ProductID)
		}
		if line.Quantity == 0 {
			continue
		}
		kept = append(kept, line)
	}

	items, _, err := s.buildItems(ctx, restaurantID, kept)
	if err != nil {
		return nil, err
	}
	return s.EditOrderItems(ctx, restaurantID, orderID, items, actorID)
}

// GetOrder retrieves an order with its items
func (s *OrderService) GetOrder(ctx context.Context, restaurantID, orderID string) (*models.Order, error) {
	return s.store.GetOrderByID(ctx, restaurantID, orderID)
}

// ListOrders retrieves orders, optionally restricted to a status subset
func (s *OrderService) ListOrders(ctx context.Context, restaurantID string, statuses []models.OrderStatus) ([]models.Order, error) {
	return s.store.GetOrders(ctx, restaurantID, statuses)
}

// buildItems validates the cart against the catalog and snapshots product
// name and price into order items.
func (s *OrderService) buildItems(ctx context.Context, restaurantID string, cart []CartItem) ([]models.OrderItem, int64, error) {
	if len(cart) == 0 {
		return nil, 0, fmt.Errorf("%w: order must contain at least one item", models.ErrValidation)
	}

	ids := make([]string, 0, len(cart))
	for _, line := range cart {
		if line.Quantity <= 0 {
			return nil, 0, fmt.Errorf("%w: quantity must be positive for product %s", models.ErrValidation, line.ProductID)
		}
		ids = append(ids, line.ProductID)
	}

	products, err := s.store.GetProductsByIDs(ctx, restaurantID, ids)
	if err != nil {
		return nil, 0, err
	}

	byID := make(map[string]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]models.OrderItem, 0, len(cart))
	var total int64
	for _, line := range cart {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, 0, fmt.Errorf("product %s: %w", line.ProductID, models.ErrNotFound)
		}
		if !product.IsAvailable {
			return nil, 0, fmt.Errorf("%w: product %s is not available", models.ErrValidation, product.Name)
		}

		subtotal := product.PriceCents * int64(line.Quantity)
		items = append(items, models.OrderItem{
			ProductID:         product.ID,
			ProductName:       product.Name,
			ProductPriceCents: product.PriceCents,
			Quantity:          line.Quantity,
			SubtotalCents:     subtotal,
			Notes:             line.Notes,
		})
		total += subtotal
	}
	return items, total, nil
}

// normalizeItems validates a committed working copy: drops zero-quantity
// lines, rejects negative quantities and recomputes subtotals from the
// snapshotted prices.
func normalizeItems(items []models.OrderItem) ([]models.OrderItem, error) {
	cleaned := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative for %s", models.ErrValidation, item.ProductName)
		}
		if item.Quantity == 0 {
			continue
		}
		item.SubtotalCents = item.ProductPriceCents * int64(item.Quantity)
		cleaned = append(cleaned, item)
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: order must keep at least one item", models.ErrValidation)
	}
	return cleaned, nil
}

func itemEventData(items []models.OrderItem) []models.OrderItemData {
	data := make([]models.OrderItemData, 0, len(items))
	for _, item := range items {
		data = append(data, models.OrderItemData{
			ProductID:  item.ProductID,
			Name:       item.ProductName,
			Quantity:   item.Quantity,
			PriceCents: item.ProductPriceCents,
		})
	}
	return data
}

func (s *OrderService) notifyOrdersChanged(ctx context.Context, restaurantID string) {
	if err := s.redis.OrdersChanged(ctx, restaurantID); err != nil {
		s.logger.Warn("Failed to publish order change notification", zap.Error(err))
	}
}

// GenerateOrderNumber builds a human-readable order number from the current
// date and time plus a random suffix. It is collision-improbable, not
// guaranteed unique.
func GenerateOrderNumber() string {
	now := time.Now()
	return fmt.Sprintf("ORD-%s-%s-%02d",
		now.Format("060102"), now.Format("1504"), rand.Intn(100))
}
