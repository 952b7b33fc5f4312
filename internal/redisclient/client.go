package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// tableLockTTL bounds how long a creation attempt may hold a table lock if
// the holder dies mid-request.
const tableLockTTL = 10 * time.Second

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func ordersChannel(restaurantID string) string {
	return fmt.Sprintf("changes:%s:orders", restaurantID)
}

func tableCallsChannel(restaurantID string) string {
	return fmt.Sprintf("changes:%s:table-calls", restaurantID)
}

// OrdersChanged signals every open order subscription of a tenant that the
// order set changed. The payload carries no data: consumers re-read the
// store and deliver a full replacement snapshot.
func (c *Client) OrdersChanged(ctx context.Context, restaurantID string) error {
	return c.rdb.Publish(ctx, ordersChannel(restaurantID), "1").Err()
}

// TableCallsChanged signals open table-call subscriptions of a tenant.
func (c *Client) TableCallsChanged(ctx context.Context, restaurantID string) error {
	return c.rdb.Publish(ctx, tableCallsChannel(restaurantID), "1").Err()
}

// OrdersFeed subscribes to a tenant's order change channel. The returned
// channel ticks on every change and closes when ctx is cancelled.
func (c *Client) OrdersFeed(ctx context.Context, restaurantID string) (<-chan struct{}, error) {
	return c.feed(ctx, ordersChannel(restaurantID))
}

// TableCallsFeed subscribes to a tenant's table-call change channel.
func (c *Client) TableCallsFeed(ctx context.Context, restaurantID string) (<-chan struct{}, error) {
	return c.feed(ctx, tableCallsChannel(restaurantID))
}

func (c *Client) feed(ctx context.Context, channel string) (<-chan struct{}, error) {
	sub := c.rdb.Subscribe(ctx, channel)

	// Force the subscription to be established before returning so callers
	// never miss a change between subscribe and first receive.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	ticks := make(chan struct{}, 1)
	go func() {
		defer close(ticks)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case ticks <- struct{}{}:
				default:
					// a tick is already pending; coalesce
				}
			}
		}
	}()
	return ticks, nil
}

// AcquireTableLock takes a short-lived per-table creation lock. It narrows
// the admission race before the transactional occupancy insert, which
// remains the authoritative guard.
func (c *Client) AcquireTableLock(ctx context.Context, restaurantID, tableNumber string) (bool, error) {
	key := fmt.Sprintf("lock:table:%s:%s", restaurantID, tableNumber)
	return c.rdb.SetNX(ctx, key, "1", tableLockTTL).Result()
}

// ReleaseTableLock releases a per-table creation lock
func (c *Client) ReleaseTableLock(ctx context.Context, restaurantID, tableNumber string) error {
	key := fmt.Sprintf("lock:table:%s:%s", restaurantID, tableNumber)
	return c.rdb.Del(ctx, key).Err()
}

func statsKey(restaurantID, day string) string {
	return fmt.Sprintf("stats:%s:%s", restaurantID, day)
}

// RecordOrderCreated increments the daily order counter
func (c *Client) RecordOrderCreated(ctx context.Context, restaurantID, day string) error {
	key := statsKey(restaurantID, day)
	pipe := c.rdb.Pipeline()
	pipe.HIncrBy(ctx, key, "orders_created", 1)
	pipe.Expire(ctx, key, 48*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

// RecordOrderPaid adds a paid order to the daily sales aggregates
func (c *Client) RecordOrderPaid(ctx context.Context, restaurantID, day string, totalCents int64) error {
	key := statsKey(restaurantID, day)
	pipe := c.rdb.Pipeline()
	pipe.HIncrBy(ctx, key, "orders_paid", 1)
	pipe.HIncrBy(ctx, key, "sales_cents", totalCents)
	pipe.Expire(ctx, key, 48*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

// RecordOrderCancelled increments the daily cancellation counter
func (c *Client) RecordOrderCancelled(ctx context.Context, restaurantID, day string) error {
	key := statsKey(restaurantID, day)
	pipe := c.rdb.Pipeline()
	pipe.HIncrBy(ctx, key, "orders_cancelled", 1)
	pipe.Expire(ctx, key, 48*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

// DashboardStats are the aggregated per-day counters shown on the admin
// dashboard.
type DashboardStats struct {
	OrdersCreated   int64 `json:"orders_created"`
	OrdersPaid      int64 `json:"orders_paid"`
	OrdersCancelled int64 `json:"orders_cancelled"`
	SalesCents      int64 `json:"sales_cents"`
}

// GetDashboardStats reads the daily aggregates. Missing fields read as zero.
func (c *Client) GetDashboardStats(ctx context.Context, restaurantID, day string) (*DashboardStats, error) {
	values, err := c.rdb.HGetAll(ctx, statsKey(restaurantID, day)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard stats: %w", err)
	}

	stats := &DashboardStats{}
	stats.OrdersCreated, _ = strconv.ParseInt(values["orders_created"], 10, 64)
	stats.OrdersPaid, _ = strconv.ParseInt(values["orders_paid"], 10, 64)
	stats.OrdersCancelled, _ = strconv.ParseInt(values["orders_cancelled"], 10, 64)
	stats.SalesCents, _ = strconv.ParseInt(values["sales_cents"], 10, 64)
	return stats, nil
}
