package models

import "time"

// Role is a staff role within one restaurant.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
	RoleWaiter  Role = "waiter"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCashier || r == RoleWaiter
}

// Restaurant is the tenant root. One per tenant, created out-of-band.
type Restaurant struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Slogan       string    `db:"slogan" json:"slogan,omitempty"`
	Description  string    `db:"description" json:"description,omitempty"`
	Address      string    `db:"address" json:"address"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	OpeningHours string    `db:"opening_hours" json:"opening_hours,omitempty"`
	Lat          float64   `db:"lat" json:"lat"`
	Lng          float64   `db:"lng" json:"lng"`
	LogoURL      string    `db:"logo_url" json:"logo_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// User is a staff account. Username is unique within its restaurant and the
// password is stored only as a bcrypt hash. IsActive gates login.
type User struct {
	ID           string    `db:"id" json:"id"`
	RestaurantID string    `db:"restaurant_id" json:"restaurant_id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         Role      `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Category groups products on the menu. SortOrder ascending is significant.
type Category struct {
	ID           string    `db:"id" json:"id"`
	RestaurantID string    `db:"restaurant_id" json:"restaurant_id"`
	Name         string    `db:"name" json:"name"`
	Icon         string    `db:"icon" json:"icon"`
	SortOrder    int       `db:"sort_order" json:"sort_order"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Product is a menu entry. PriceCents is the snapshot source: order items
// copy name and price at order-creation time, so catalog edits never alter
// historical orders.
type Product struct {
	ID           string    `db:"id" json:"id"`
	RestaurantID string    `db:"restaurant_id" json:"restaurant_id"`
	CategoryID   string    `db:"category_id" json:"category_id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description,omitempty"`
	PriceCents   int64     `db:"price_cents" json:"price_cents"`
	ImageURL     string    `db:"image_url" json:"image_url,omitempty"`
	IsAvailable  bool      `db:"is_available" json:"is_available"`
	SortOrder    int       `db:"sort_order" json:"sort_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Order is the central entity. The per-status timestamps and per-role actor
// ids are flattened into nullable columns; each *_at is written exactly once,
// the first time that status is entered.
type Order struct {
	ID                 string      `db:"id" json:"id"`
	RestaurantID       string      `db:"restaurant_id" json:"restaurant_id"`
	OrderNumber        string      `db:"order_number" json:"order_number"`
	TableNumber        string      `db:"table_number" json:"table_number"`
	CustomerName       string      `db:"customer_name" json:"customer_name,omitempty"`
	Status             OrderStatus `db:"status" json:"status"`
	TotalCents         int64       `db:"total_cents" json:"total_cents"`
	Notes              string      `db:"notes" json:"notes,omitempty"`
	CancellationReason string      `db:"cancellation_reason" json:"cancellation_reason,omitempty"`

	ReceivedAt  *time.Time `db:"received_at" json:"received_at,omitempty"`
	InKitchenAt *time.Time `db:"in_kitchen_at" json:"in_kitchen_at,omitempty"`
	ReadyAt     *time.Time `db:"ready_at" json:"ready_at,omitempty"`
	ServedAt    *time.Time `db:"served_at" json:"served_at,omitempty"`
	PaidAt      *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`

	CreatedBy   string `db:"created_by" json:"created_by,omitempty"`
	ChefID      string `db:"chef_id" json:"chef_id,omitempty"`
	WaiterID    string `db:"waiter_id" json:"waiter_id,omitempty"`
	CashierID   string `db:"cashier_id" json:"cashier_id,omitempty"`
	CancelledBy string `db:"cancelled_by" json:"cancelled_by,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// StatusTimestamp returns the recorded entry time for a status, or nil if
// that status has never been reached.
func (o *Order) StatusTimestamp(s OrderStatus) *time.Time {
	switch s {
	case StatusReceived:
		return o.ReceivedAt
	case StatusInKitchen:
		return o.InKitchenAt
	case StatusReady:
		return o.ReadyAt
	case StatusServed:
		return o.ServedAt
	case StatusPaid:
		return o.PaidAt
	case StatusCancelled:
		return o.CancelledAt
	}
	return nil
}

// ItemsTotal sums the item subtotals. The persisted TotalCents must always
// equal this.
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.SubtotalCents
	}
	return total
}

// OrderItem is a line of an order with name and price snapshotted from the
// product at the time the line was written.
type OrderItem struct {
	ID                string    `db:"id" json:"id"`
	OrderID           string    `db:"order_id" json:"order_id"`
	ProductID         string    `db:"product_id" json:"product_id"`
	ProductName       string    `db:"product_name" json:"product_name"`
	ProductPriceCents int64     `db:"product_price_cents" json:"product_price_cents"`
	Quantity          int       `db:"quantity" json:"quantity"`
	SubtotalCents     int64     `db:"subtotal_cents" json:"subtotal_cents"`
	Notes             string    `db:"notes" json:"notes,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// CallReason is why a table requested staff attention.
type CallReason string

const (
	CallReasonWaiter CallReason = "waiter"
	CallReasonBill   CallReason = "bill"
	CallReasonOther  CallReason = "other"
)

// Valid reports whether r is a known call reason.
func (r CallReason) Valid() bool {
	return r == CallReasonWaiter || r == CallReasonBill || r == CallReasonOther
}

// CallStatus is the resolution state of a table call.
type CallStatus string

const (
	CallPending  CallStatus = "pending"
	CallAttended CallStatus = "attended"
)

// TableCall is a service request tied to a table. It shares the real-time
// notification pattern with orders but is independent of the order lifecycle.
type TableCall struct {
	ID           string     `db:"id" json:"id"`
	RestaurantID string     `db:"restaurant_id" json:"restaurant_id"`
	TableNumber  string     `db:"table_number" json:"table_number"`
	OrderID      string     `db:"order_id" json:"order_id"`
	OrderNumber  string     `db:"order_number" json:"order_number"`
	Reason       CallReason `db:"reason" json:"reason"`
	Message      string     `db:"message" json:"message,omitempty"`
	Status       CallStatus `db:"status" json:"status"`
	AttendedBy   string     `db:"attended_by" json:"attended_by,omitempty"`
	AttendedAt   *time.Time `db:"attended_at" json:"attended_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// OrderSummary is the per-table view used by the occupied-tables overview.
type OrderSummary struct {
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	TableNumber string      `json:"table_number"`
	Status      OrderStatus `json:"status"`
	TotalCents  int64       `json:"total_cents"`
	ReceivedAt  *time.Time  `json:"received_at,omitempty"`
}

// ProcessedEvent records a consumed broker event id for idempotency.
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
