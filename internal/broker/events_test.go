package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"qr-table-service/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageFor(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: payload}
}

func TestHandleMessageRoutesOrderCreated(t *testing.T) {
	eh := NewEventHandler()

	var got *models.OrderCreatedEvent
	eh.OnOrderCreated(func(ctx context.Context, event *models.OrderCreatedEvent) error {
		got = event
		return nil
	})

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:      "e-1",
			EventType:    models.EventTypeOrderCreated,
			RestaurantID: "r-1",
			Timestamp:    time.Now(),
		},
		OrderID:     "o-1",
		OrderNumber: "ORD-260830-1200-01",
		TableNumber: "T5",
		TotalCents:  4500,
	}

	err := eh.HandleMessage(context.Background(), messageFor(t, event))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "o-1", got.OrderID)
	assert.Equal(t, int64(4500), got.TotalCents)
}

func TestHandleMessageRoutesOrderStatusChanged(t *testing.T) {
	eh := NewEventHandler()

	var got *models.OrderStatusChangedEvent
	eh.OnOrderStatusChanged(func(ctx context.Context, event *models.OrderStatusChangedEvent) error {
		got = event
		return nil
	})

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:      "e-2",
			EventType:    models.EventTypeOrderStatusChanged,
			RestaurantID: "r-1",
		},
		OrderID:   "o-1",
		OldStatus: models.StatusReceived,
		NewStatus: models.StatusInKitchen,
		ActorID:   "u-1",
	}

	err := eh.HandleMessage(context.Background(), messageFor(t, event))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StatusInKitchen, got.NewStatus)
	assert.Equal(t, "u-1", got.ActorID)
}

func TestHandleMessageIgnoresUnregisteredTypes(t *testing.T) {
	eh := NewEventHandler()

	event := &models.TableCallCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "e-3",
			EventType: models.EventTypeTableCallCreated,
		},
		CallID: "c-1",
	}

	assert.NoError(t, eh.HandleMessage(context.Background(), messageFor(t, event)))
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	eh := NewEventHandler()

	err := eh.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)
}
