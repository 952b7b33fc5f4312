package worker

import (
	"context"
	"time"

	"qr-table-service/internal/broker"
	"qr-table-service/internal/models"
	"qr-table-service/internal/redisclient"
	"qr-table-service/internal/store"
	"qr-table-service/internal/util"

	"go.uber.org/zap"
)

// AnalyticsWorker consumes order events and maintains the per-day dashboard
// aggregates in Redis. Consumption is idempotent: each event id is processed
// at most once even across restarts.
type AnalyticsWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	redis        *redisclient.Client
	logger       *zap.Logger
}

// NewAnalyticsWorker creates a new analytics worker
func NewAnalyticsWorker(
	consumer *broker.Consumer,
	store *store.Store,
	redis *redisclient.Client,
) *AnalyticsWorker {
	w := &AnalyticsWorker{
		consumer: consumer,
		store:    store,
		redis:    redis,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderCreated(w.handleOrderCreated)
	eventHandler.OnOrderStatusChanged(w.handleOrderStatusChanged)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *AnalyticsWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting analytics worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AnalyticsWorker) Stop() error {
	w.logger.Info("Stopping analytics worker")
	return w.consumer.Close()
}

func (w *AnalyticsWorker) handleOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	done, err := w.alreadyProcessed(ctx, event.EventID, event.EventType)
	if err != nil || done {
		return err
	}

	day := event.Timestamp.Format("2006-01-02")
	if err := w.redis.RecordOrderCreated(ctx, event.RestaurantID, day); err != nil {
		w.logger.Error("Failed to record order creation stat", zap.Error(err))
		return err
	}
	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func (w *AnalyticsWorker) handleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	done, err := w.alreadyProcessed(ctx, event.EventID, event.EventType)
	if err != nil || done {
		return err
	}

	day := event.Timestamp.Format("2006-01-02")
	switch event.NewStatus {
	case models.StatusPaid:
		if err := w.redis.RecordOrderPaid(ctx, event.RestaurantID, day, event.TotalCents); err != nil {
			w.logger.Error("Failed to record sale stat", zap.Error(err))
			return err
		}
	case models.StatusCancelled:
		if err := w.redis.RecordOrderCancelled(ctx, event.RestaurantID, day); err != nil {
			w.logger.Error("Failed to record cancellation stat", zap.Error(err))
			return err
		}
	}
	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func (w *AnalyticsWorker) alreadyProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	processed, err := w.store.IsEventProcessed(ctx, eventID)
	if err != nil {
		w.logger.Error("Failed to check event idempotency",
			zap.String("event_id", eventID), zap.Error(err))
		return false, err
	}
	if processed {
		w.logger.Debug("Skipping already processed event",
			zap.String("event_id", eventID),
			zap.String("event_type", eventType))
		return true, nil
	}
	return false, nil
}

// Today returns the stats day key for the current time.
func Today() string {
	return time.Now().Format("2006-01-02")
}
