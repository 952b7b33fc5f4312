package projection

import (
	"context"
	"sync"
	"testing"
	"time"

	"qr-table-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource backs both the store and notifier sides of the projector with
// in-memory state. Ticking it mimics a change notification arriving from
// Redis after a store mutation.
type fakeSource struct {
	mu     sync.Mutex
	orders []models.Order
	calls  []models.TableCall
	ticks  chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{ticks: make(chan struct{}, 8)}
}

func (f *fakeSource) setOrders(orders []models.Order) {
	f.mu.Lock()
	f.orders = orders
	f.mu.Unlock()
}

func (f *fakeSource) setCalls(calls []models.TableCall) {
	f.mu.Lock()
	f.calls = calls
	f.mu.Unlock()
}

func (f *fakeSource) tick() {
	f.ticks <- struct{}{}
}

func (f *fakeSource) GetOrders(ctx context.Context, restaurantID string, statuses []models.OrderStatus) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if statuses == nil {
		out := make([]models.Order, len(f.orders))
		copy(out, f.orders)
		return out, nil
	}

	allowed := make(map[models.OrderStatus]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}
	var out []models.Order
	for _, o := range f.orders {
		if allowed[o.Status] {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeSource) GetOrderByID(ctx context.Context, restaurantID, orderID string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			o := f.orders[i]
			return &o, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeSource) GetPendingTableCalls(ctx context.Context, restaurantID string) ([]models.TableCall, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.TableCall, len(f.calls))
	copy(out, f.calls)
	return out, nil
}

func (f *fakeSource) OrdersFeed(ctx context.Context, restaurantID string) (<-chan struct{}, error) {
	return f.ticks, nil
}

func (f *fakeSource) TableCallsFeed(ctx context.Context, restaurantID string) (<-chan struct{}, error) {
	return f.ticks, nil
}

func receiveOrders(t *testing.T, ch <-chan []models.Order) []models.Order {
	t.Helper()
	select {
	case snapshot, ok := <-ch:
		require.True(t, ok, "feed closed unexpectedly")
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribeOrdersInitialSnapshot(t *testing.T) {
	src := newFakeSource()
	src.setOrders([]models.Order{{ID: "o1", Status: models.StatusReceived}})

	p := NewProjector(src, src, src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed, err := p.SubscribeOrders(ctx, "r-1", nil)
	require.NoError(t, err)

	snapshot := receiveOrders(t, feed)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "o1", snapshot[0].ID)
}

func TestSubscribeOrdersTickDeliversFullReplacement(t *testing.T) {
	src := newFakeSource()
	src.setOrders([]models.Order{{ID: "o1", Status: models.StatusReceived}})

	p := NewProjector(src, src, src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed, err := p.SubscribeOrders(ctx, "r-1", nil)
	require.NoError(t, err)
	receiveOrders(t, feed)

	src.setOrders([]models.Order{
		{ID: "o1", Status: models.StatusInKitchen},
		{ID: "o2", Status: models.StatusReceived},
	})
	src.tick()

	snapshot := receiveOrders(t, feed)
	require.Len(t, snapshot, 2)
	assert.Equal(t, models.StatusInKitchen, snapshot[0].Status)
	assert.Equal(t, "o2", snapshot[1].ID)
}

func TestSubscribeOrdersStatusFilter(t *testing.T) {
	src := newFakeSource()
	src.setOrders([]models.Order{
		{ID: "o1", Status: models.StatusReceived},
		{ID: "o2", Status: models.StatusServed},
		{ID: "o3", Status: models.StatusPaid},
		{ID: "o4", Status: models.StatusCancelled},
	})

	p := NewProjector(src, src, src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Waiters see every active order (served ones still need delivering)
	// but never terminal ones.
	feed, err := p.SubscribeOrdersForRole(ctx, "r-1", models.RoleWaiter)
	require.NoError(t, err)

	snapshot := receiveOrders(t, feed)
	require.Len(t, snapshot, 2)
	assert.Equal(t, "o1", snapshot[0].ID)
	assert.Equal(t, "o2", snapshot[1].ID)
}

func TestSubscribeOrdersCancelClosesFeed(t *testing.T) {
	src := newFakeSource()
	p := NewProjector(src, src, src)

	ctx, cancel := context.WithCancel(context.Background())

	feed, err := p.SubscribeOrders(ctx, "r-1", nil)
	require.NoError(t, err)
	receiveOrders(t, feed)

	cancel()

	select {
	case _, ok := <-feed:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("feed did not close after cancellation")
	}
}

func TestSubscribeOrderDeliversNilWhenMissing(t *testing.T) {
	src := newFakeSource()
	p := NewProjector(src, src, src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed, err := p.SubscribeOrder(ctx, "r-1", "nope")
	require.NoError(t, err)

	select {
	case snapshot, ok := <-feed:
		require.True(t, ok)
		assert.Nil(t, snapshot)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}

func TestSubscribeOrderFollowsUpdates(t *testing.T) {
	src := newFakeSource()
	src.setOrders([]models.Order{{ID: "o1", Status: models.StatusReceived}})

	p := NewProjector(src, src, src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed, err := p.SubscribeOrder(ctx, "r-1", "o1")
	require.NoError(t, err)

	first := <-feed
	require.NotNil(t, first)
	assert.Equal(t, models.StatusReceived, first.Status)

	src.setOrders([]models.Order{{ID: "o1", Status: models.StatusReady}})
	src.tick()

	second := <-feed
	require.NotNil(t, second)
	assert.Equal(t, models.StatusReady, second.Status)
}

func TestSubscribeTableCalls(t *testing.T) {
	src := newFakeSource()
	src.setCalls([]models.TableCall{{ID: "c1", Status: models.CallPending}})

	p := NewProjector(src, src, src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed, err := p.SubscribeTableCalls(ctx, "r-1")
	require.NoError(t, err)

	snapshot := <-feed
	require.Len(t, snapshot, 1)

	// Attending the call removes it from the next snapshot.
	src.setCalls(nil)
	src.tick()

	snapshot = <-feed
	assert.Empty(t, snapshot)
}
