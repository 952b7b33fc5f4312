package projection

import (
	"context"
	"errors"

	"qr-table-service/internal/models"
	"qr-table-service/internal/util"

	"go.uber.org/zap"
)

// OrderLister is the store query surface the projector reads from.
type OrderLister interface {
	GetOrders(ctx context.Context, restaurantID string, statuses []models.OrderStatus) ([]models.Order, error)
	GetOrderByID(ctx context.Context, restaurantID, orderID string) (*models.Order, error)
}

// CallLister reads pending table calls.
type CallLister interface {
	GetPendingTableCalls(ctx context.Context, restaurantID string) ([]models.TableCall, error)
}

// Notifier delivers per-tenant change ticks. Each tick means "something
// changed, re-read"; it carries no data.
type Notifier interface {
	OrdersFeed(ctx context.Context, restaurantID string) (<-chan struct{}, error)
	TableCallsFeed(ctx context.Context, restaurantID string) (<-chan struct{}, error)
}

// Projector fans store change notifications out into live, role-filtered
// views. Every delivery is the full current state, never a diff; consumers
// must treat each one as an authoritative replacement.
type Projector struct {
	orders   OrderLister
	calls    CallLister
	notifier Notifier
	logger   *zap.Logger
}

// NewProjector creates a new projector
func NewProjector(orders OrderLister, calls CallLister, notifier Notifier) *Projector {
	return &Projector{
		orders:   orders,
		calls:    calls,
		notifier: notifier,
		logger:   util.GetLogger(),
	}
}

// SubscribeOrders opens a live order-list subscription. A nil status filter
// means all orders (the cashier view); a waiter view passes the editable
// subset. The first delivery is the current snapshot; the channel closes
// when ctx is cancelled.
func (p *Projector) SubscribeOrders(ctx context.Context, restaurantID string, statuses []models.OrderStatus) (<-chan []models.Order, error) {
	ticks, err := p.notifier.OrdersFeed(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	out := make(chan []models.Order, 1)
	util.ActiveSubscriptions.Inc()

	go func() {
		defer close(out)
		defer util.ActiveSubscriptions.Dec()

		deliver := func() bool {
			orders, err := p.orders.GetOrders(ctx, restaurantID, statuses)
			if err != nil {
				if ctx.Err() == nil {
					p.logger.Error("Failed to refresh order projection", zap.Error(err))
				}
				return true
			}
			select {
			case out <- orders:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !deliver() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				if !deliver() {
					return
				}
			}
		}
	}()

	return out, nil
}

// SubscribeOrdersForRole opens a live order-list subscription with the
// status filter belonging to a staff role.
func (p *Projector) SubscribeOrdersForRole(ctx context.Context, restaurantID string, role models.Role) (<-chan []models.Order, error) {
	return p.SubscribeOrders(ctx, restaurantID, models.StatusFilterForRole(role))
}

// SubscribeOrder opens a live single-order subscription for the customer
// status page. A delivery of nil means the order does not exist.
func (p *Projector) SubscribeOrder(ctx context.Context, restaurantID, orderID string) (<-chan *models.Order, error) {
	ticks, err := p.notifier.OrdersFeed(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	out := make(chan *models.Order, 1)
	util.ActiveSubscriptions.Inc()

	go func() {
		defer close(out)
		defer util.ActiveSubscriptions.Dec()

		deliver := func() bool {
			order, err := p.orders.GetOrderByID(ctx, restaurantID, orderID)
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				if ctx.Err() == nil {
					p.logger.Error("Failed to refresh order projection", zap.Error(err))
				}
				return true
			}
			select {
			case out <- order:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !deliver() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				if !deliver() {
					return
				}
			}
		}
	}()

	return out, nil
}

// SubscribeTableCalls opens a live feed of pending table calls for waiter
// dashboards.
func (p *Projector) SubscribeTableCalls(ctx context.Context, restaurantID string) (<-chan []models.TableCall, error) {
	ticks, err := p.notifier.TableCallsFeed(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	out := make(chan []models.TableCall, 1)
	util.ActiveSubscriptions.Inc()

	go func() {
		defer close(out)
		defer util.ActiveSubscriptions.Dec()

		deliver := func() bool {
			calls, err := p.calls.GetPendingTableCalls(ctx, restaurantID)
			if err != nil {
				if ctx.Err() == nil {
					p.logger.Error("Failed to refresh table call projection", zap.Error(err))
				}
				return true
			}
			select {
			case out <- calls:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !deliver() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				if !deliver() {
					return
				}
			}
		}
	}()

	return out, nil
}
