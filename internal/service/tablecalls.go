package service

import (
	"context"
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

// TableCallService handles customer service requests (call waiter, ask for
// the bill). Calls are independent of the order lifecycle but share the
// real-time notification pattern.
type TableCallService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewTableCallService creates a new table call service
func NewTableCallService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
) *TableCallService {
	return &TableCallService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CreateTableCallRequest is a customer-initiated service request.
type CreateTableCallRequest struct {
	TableNumber string            `json:"table_number" binding:"required"`
	OrderID     string            `json:"order_id,omitempty"`
	OrderNumber string            `json:"order_number,omitempty"`
	Reason      models.CallReason `json:"reason" binding:"required"`
	Message     string            `json:"message,omitempty"`
}

// CreateCall records a pending call and notifies waiter dashboards.
func (s *TableCallService) CreateCall(ctx context.Context, restaurantID string, req *CreateTableCallRequest) (*models.TableCall, error) {
	if !req.Reason.Valid() {
		return nil, fmt.Errorf("%w: unknown call reason %q", models.ErrValidation, req.Reason)
	}

	call := &models.TableCall{
		RestaurantID: restaurantID,
		TableNumber:  req.TableNumber,
		OrderID:      req.OrderID,
		OrderNumber:  req.OrderNumber,
		Reason:       req.Reason,
		Message:      strings.TrimSpace(req.Message),
	}
	if err := s.store.CreateTableCall(ctx, call); err != nil {
		return nil, err
	}

	util.TableCallsCreatedTotal.Inc()
	s.logger.Info("Table call created",
		zap.String("call_id", call.ID),
		zap.String("table", call.TableNumber),
		zap.String("reason", string(call.Reason)))

	event := &models.TableCallCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:      uuid.New().String(),
			EventType:    models.EventTypeTableCallCreated,
			RestaurantID: restaurantID,
			Timestamp:    time.Now(),
		},
		CallID:      call.ID,
		TableNumber: call.TableNumber,
		OrderID:     call.OrderID,
		Reason:      call.Reason,
	}
	if err := s.eventPublisher.PublishTableCallCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish TableCallCreated event", zap.Error(err))
	}

	s.notifyCallsChanged(ctx, restaurantID)
	return call, nil
}

// ListPendingCalls retrieves unresolved calls for the waiter dashboard.
func (s *TableCallService) ListPendingCalls(ctx context.Context, restaurantID string) ([]models.TableCall, error) {
	return s.store.GetPendingTableCalls(ctx, restaurantID)
}

// AttendCall resolves a pending call, attributing it to the acting staff
// member. A call already attended reads as not found.
func (s *TableCallService) AttendCall(ctx context.Context, restaurantID, callID, userID string) (*models.TableCall, error) {
	call, err := s.store.AttendTableCall(ctx, restaurantID, callID, userID)
	if err != nil {
		return nil, err
	}

	util.TableCallsAttendedTotal.Inc()
	s.logger.Info("Table call attended",
		zap.String("call_id", callID),
		zap.String("attended_by", userID))

	event := &models.TableCallAttendedEvent{
		BaseEvent: models.BaseEvent{
			EventID:      uuid.New().String(),
			EventType:    models.EventTypeTableCallAttended,
			RestaurantID: restaurantID,
			Timestamp:    time.Now(),
		},
		CallID:     callID,
		AttendedBy: userID,
	}
	if err := s.eventPublisher.PublishTableCallAttended(ctx, event); err != nil {
		s.logger.Error("Failed to publish TableCallAttended event", zap.Error(err))
	}

	s.notifyCallsChanged(ctx, restaurantID)
	return call, nil
}

func (s *TableCallService) notifyCallsChanged(ctx context.Context, restaurantID string) {
	if err := s.redis.TableCallsChanged(ctx, restaurantID); err != nil {
		s.logger.Warn("Failed to publish table call notification", zap.Error(err))
	}
}
