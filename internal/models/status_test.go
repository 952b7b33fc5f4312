package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckTransitionForward(t *testing.T) {
	assert.NoError(t, CheckTransition(StatusReceived, StatusInKitchen))
	assert.NoError(t, CheckTransition(StatusInKitchen, StatusReady))
	assert.NoError(t, CheckTransition(StatusReady, StatusServed))
	assert.NoError(t, CheckTransition(StatusServed, StatusPaid))
}

func TestCheckTransitionBackward(t *testing.T) {
	// Staff may correct mistakes by moving an order backwards.
	assert.NoError(t, CheckTransition(StatusServed, StatusReady))
	assert.NoError(t, CheckTransition(StatusReady, StatusInKitchen))
	assert.NoError(t, CheckTransition(StatusInKitchen, StatusReceived))
}

func TestCheckTransitionTerminalFrozen(t *testing.T) {
	for _, terminal := range []OrderStatus{StatusPaid, StatusCancelled} {
		for _, to := range []OrderStatus{StatusReceived, StatusInKitchen, StatusReady, StatusServed, StatusPaid, StatusCancelled} {
			assert.ErrorIs(t, CheckTransition(terminal, to), ErrInvalidTransition,
				"transition out of %s must be rejected", terminal)
		}
	}
}

func TestCheckTransitionUnknownTarget(t *testing.T) {
	assert.ErrorIs(t, CheckTransition(StatusReceived, OrderStatus("delivered")), ErrInvalidTransition)
	assert.ErrorIs(t, CheckTransition(StatusReceived, OrderStatus("")), ErrInvalidTransition)
}

func TestCheckTransitionCancelFromAnyActive(t *testing.T) {
	for _, from := range ActiveStatuses {
		assert.NoError(t, CheckTransition(from, StatusCancelled))
	}
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusReceived.Active())
	assert.True(t, StatusServed.Active())
	assert.False(t, StatusPaid.Active())
	assert.False(t, StatusCancelled.Active())

	assert.True(t, StatusReceived.Editable())
	assert.True(t, StatusInKitchen.Editable())
	assert.False(t, StatusReady.Editable())
	assert.False(t, StatusServed.Editable())
	assert.False(t, StatusPaid.Editable())

	assert.False(t, OrderStatus("bogus").Valid())
	assert.False(t, OrderStatus("bogus").Active())
}

func TestStatusMetaDefinedForAllStatuses(t *testing.T) {
	statuses := []OrderStatus{StatusReceived, StatusInKitchen, StatusReady, StatusServed, StatusPaid, StatusCancelled}

	seenRanks := make(map[int]bool)
	for _, s := range statuses {
		meta := s.Meta()
		assert.NotEmpty(t, meta.Label, "status %s", s)
		assert.NotEmpty(t, meta.Color, "status %s", s)
		assert.False(t, seenRanks[meta.Rank], "duplicate rank for %s", s)
		seenRanks[meta.Rank] = true
	}

	assert.Zero(t, OrderStatus("bogus").Meta())
}

func TestStatusFilterForRole(t *testing.T) {
	// The waiter board shows every active order, not just the editable
	// ones: ready and served orders still need delivering.
	assert.Equal(t, ActiveStatuses, StatusFilterForRole(RoleWaiter))
	assert.Contains(t, StatusFilterForRole(RoleWaiter), StatusReady)
	assert.Contains(t, StatusFilterForRole(RoleWaiter), StatusServed)

	assert.Nil(t, StatusFilterForRole(RoleCashier))
	assert.Nil(t, StatusFilterForRole(RoleAdmin))
}
