package service

import (
	"context"
	"testing"

	"qr-table-service/internal/models"

	"github.com/stretchr/testify/assert"
)

// Both rejections happen before any store access, so a bare service with
// nil dependencies is enough to exercise them.

func TestAdvanceOrderStatusRejectsCancelWithoutReason(t *testing.T) {
	s := NewLifecycleService(nil, nil, nil)
	ctx := context.Background()

	_, err := s.AdvanceOrderStatus(ctx, "r-1", "o-1", models.StatusCancelled, "u-1", "")
	assert.ErrorIs(t, err, models.ErrValidation)

	// A whitespace-only reason is no reason.
	_, err = s.AdvanceOrderStatus(ctx, "r-1", "o-1", models.StatusCancelled, "u-1", "   ")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestAdvanceOrderStatusRejectsUnknownStatus(t *testing.T) {
	s := NewLifecycleService(nil, nil, nil)
	ctx := context.Background()

	_, err := s.AdvanceOrderStatus(ctx, "r-1", "o-1", models.OrderStatus("delivered"), "u-1", "")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = s.AdvanceOrderStatus(ctx, "r-1", "o-1", models.OrderStatus(""), "u-1", "")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}
