package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderItemsTotal(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{SubtotalCents: 2000},
			{SubtotalCents: 500},
			{SubtotalCents: 1250},
		},
	}
	assert.Equal(t, int64(3750), order.ItemsTotal())

	empty := &Order{}
	assert.Zero(t, empty.ItemsTotal())
}

func TestOrderStatusTimestamp(t *testing.T) {
	received := time.Now().Add(-10 * time.Minute)
	ready := time.Now()

	order := &Order{
		ReceivedAt: &received,
		ReadyAt:    &ready,
	}

	assert.Equal(t, &received, order.StatusTimestamp(StatusReceived))
	assert.Equal(t, &ready, order.StatusTimestamp(StatusReady))
	assert.Nil(t, order.StatusTimestamp(StatusInKitchen))
	assert.Nil(t, order.StatusTimestamp(StatusPaid))
	assert.Nil(t, order.StatusTimestamp(OrderStatus("bogus")))
}

func TestCallReasonValid(t *testing.T) {
	assert.True(t, CallReasonWaiter.Valid())
	assert.True(t, CallReasonBill.Valid())
	assert.True(t, CallReasonOther.Valid())
	assert.False(t, CallReason("dance").Valid())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleCashier.Valid())
	assert.True(t, RoleWaiter.Valid())
	assert.False(t, Role("chef").Valid())
}
