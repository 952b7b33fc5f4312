package models

import "time"

// Event types
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeOrderItemsEdited   = "ORDER_ITEMS_EDITED"
	EventTypeTableCallCreated   = "TABLE_CALL_CREATED"
	EventTypeTableCallAttended  = "TABLE_CALL_ATTENDED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	RestaurantID string    `json:"restaurant_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when a customer submits an order
type OrderCreatedEvent struct {
	BaseEvent
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TableNumber string          `json:"table_number"`
	TotalCents  int64           `json:"total_cents"`
	Items       []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent published on every lifecycle transition
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	TableNumber string      `json:"table_number"`
	OldStatus   OrderStatus `json:"old_status"`
	NewStatus   OrderStatus `json:"new_status"`
	ActorID     string      `json:"actor_id,omitempty"`
	Reason      string      `json:"reason,omitempty"`
	TotalCents  int64       `json:"total_cents"`
}

// OrderItemsEditedEvent published when a waiter commits an item edit
type OrderItemsEditedEvent struct {
	BaseEvent
	OrderID    string          `json:"order_id"`
	ActorID    string          `json:"actor_id,omitempty"`
	TotalCents int64           `json:"total_cents"`
	Items      []OrderItemData `json:"items"`
}

// TableCallCreatedEvent published when a customer calls for staff
type TableCallCreatedEvent struct {
	BaseEvent
	CallID      string     `json:"call_id"`
	TableNumber string     `json:"table_number"`
	OrderID     string     `json:"order_id,omitempty"`
	Reason      CallReason `json:"reason"`
}

// TableCallAttendedEvent published when staff resolves a call
type TableCallAttendedEvent struct {
	BaseEvent
	CallID     string `json:"call_id"`
	AttendedBy string `json:"attended_by"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}
