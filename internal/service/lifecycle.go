package service

import (
	"context"
	"errors"
	"fmt"
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

// LifecycleService is the order state machine: it applies status
// transitions, stamps each status timestamp exactly once and attributes the
// transition to the acting staff member.
//
// Moves between non-terminal states are permitted in both directions; only
// paid and cancelled orders are frozen. Payment-amount validation is the
// caller's responsibility, not the engine's.
type LifecycleService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
) *LifecycleService {
	return &LifecycleService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// AdvanceOrderStatus applies one transition. It fails with ErrNotFound when
// the order does not exist, ErrInvalidTransition when the target status is
// unknown or the order is terminal, and ErrValidation when cancelling
// without a reason. The status write, timestamp and actor attribution commit
// atomically; concurrent readers never observe a partial transition.
func (s *LifecycleService) AdvanceOrderStatus(ctx context.Context, restaurantID, orderID string, newStatus models.OrderStatus, actorID, reason string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "LifecycleService.AdvanceOrderStatus")
	defer span.End()

	if !newStatus.Valid() {
		util.OrderTransitionsFailedTotal.WithLabelValues("unknown_status").Inc()
		return nil, fmt.Errorf("status %q: %w", newStatus, models.ErrInvalidTransition)
	}
	if newStatus == models.StatusCancelled && strings.TrimSpace(reason) == "" {
		util.OrderTransitionsFailedTotal.WithLabelValues("missing_reason").Inc()
		return nil, fmt.Errorf("%w: cancellation requires a reason", models.ErrValidation)
	}

	before, err := s.store.GetOrderByID(ctx, restaurantID, orderID)
	if err != nil {
		return nil, err
	}

	order, err := s.store.TransitionOrder(ctx, restaurantID, orderID, newStatus, actorID, reason)
	if err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			util.OrderTransitionsFailedTotal.WithLabelValues("terminal").Inc()
		}
		return nil, err
	}

	util.OrderTransitionsTotal.WithLabelValues(string(newStatus)).Inc()
	if newStatus == models.StatusCancelled {
		util.OrdersCancelledTotal.Inc()
	}

	s.logger.Info("Order status changed",
		zap.String("order_id", orderID),
		zap.String("from", string(before.Status)),
		zap.String("to", string(newStatus)),
		zap.String("actor_id", actorID))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:      uuid.New().String(),
			EventType:    models.EventTypeOrderStatusChanged,
			RestaurantID: restaurantID,
			Timestamp:    time.Now(),
		},
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TableNumber: order.TableNumber,
		OldStatus:   before.Status,
		NewStatus:   newStatus,
		ActorID:     actorID,
		Reason:      reason,
		TotalCents:  order.TotalCents,
	}
	if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	if err := s.redis.OrdersChanged(ctx, restaurantID); err != nil {
		s.logger.Warn("Failed to publish order change notification", zap.Error(err))
	}

	return order, nil
}
