package models

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusReceived  OrderStatus = "received"
	StatusInKitchen OrderStatus = "in_kitchen"
	StatusReady     OrderStatus = "ready"
	StatusServed    OrderStatus = "served"
	StatusPaid      OrderStatus = "paid"
	StatusCancelled OrderStatus = "cancelled"
)

// StatusMeta carries the display metadata for a status. It is defined once
// here and consumed by every view; views must not redefine labels or colors.
type StatusMeta struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Rank  int    `json:"rank"`
}

var statusMeta = map[OrderStatus]StatusMeta{
	StatusReceived:  {Label: "Received", Color: "blue", Rank: 0},
	StatusInKitchen: {Label: "In Kitchen", Color: "orange", Rank: 1},
	StatusReady:     {Label: "Ready", Color: "green", Rank: 2},
	StatusServed:    {Label: "Served", Color: "purple", Rank: 3},
	StatusPaid:      {Label: "Paid", Color: "gray", Rank: 4},
	StatusCancelled: {Label: "Cancelled", Color: "red", Rank: 5},
}

// ActiveStatuses are the states in which an order holds its table.
var ActiveStatuses = []OrderStatus{StatusReceived, StatusInKitchen, StatusReady, StatusServed}

// EditableStatuses are the states in which line items may still be changed.
var EditableStatuses = []OrderStatus{StatusReceived, StatusInKitchen}

// Valid reports whether s is one of the six defined statuses.
func (s OrderStatus) Valid() bool {
	_, ok := statusMeta[s]
	return ok
}

// Terminal reports whether s permits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// Active reports whether an order in state s occupies its table.
func (s OrderStatus) Active() bool {
	return s.Valid() && !s.Terminal()
}

// Editable reports whether line items may be changed in state s.
func (s OrderStatus) Editable() bool {
	return s == StatusReceived || s == StatusInKitchen
}

// Meta returns the display metadata for s. Unknown statuses get a zero Meta.
func (s OrderStatus) Meta() StatusMeta {
	return statusMeta[s]
}

// CheckTransition validates a move from one status to another. Moves between
// non-terminal states are allowed in both directions (a waiter may pull a
// served order back to ready); only terminal states are frozen.
func CheckTransition(from, to OrderStatus) error {
	if !to.Valid() {
		return ErrInvalidTransition
	}
	if from.Terminal() {
		return ErrInvalidTransition
	}
	return nil
}

// StatusFilterForRole returns the status subset a staff role observes on its
// live order board. The waiter board covers every active order: the editable
// ones plus ready/served for delivery. A nil result means no filtering.
func StatusFilterForRole(role Role) []OrderStatus {
	switch role {
	case RoleWaiter:
		return ActiveStatuses
	default:
		return nil
	}
}
