package service

import (
	"regexp"
	"testing"

	"qr-table-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeItemsRecomputesSubtotals(t *testing.T) {
	items := []models.OrderItem{
		{ProductName: "Nasi Goreng", ProductPriceCents: 2500, Quantity: 2, SubtotalCents: 1},
		{ProductName: "Es Teh", ProductPriceCents: 500, Quantity: 3},
	}

	cleaned, err := normalizeItems(items)
	assert.NoError(t, err)
	assert.Len(t, cleaned, 2)
	assert.Equal(t, int64(5000), cleaned[0].SubtotalCents)
	assert.Equal(t, int64(1500), cleaned[1].SubtotalCents)
}

func TestNormalizeItemsDropsZeroQuantityLines(t *testing.T) {
	items := []models.OrderItem{
		{ProductName: "Nasi Goreng", ProductPriceCents: 2500, Quantity: 1},
		{ProductName: "Es Teh", ProductPriceCents: 500, Quantity: 0},
	}

	cleaned, err := normalizeItems(items)
	assert.NoError(t, err)
	assert.Len(t, cleaned, 1)
	assert.Equal(t, "Nasi Goreng", cleaned[0].ProductName)
}

func TestNormalizeItemsRejectsNegativeQuantity(t *testing.T) {
	items := []models.OrderItem{
		{ProductName: "Nasi Goreng", ProductPriceCents: 2500, Quantity: -1},
	}

	_, err := normalizeItems(items)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestNormalizeItemsRejectsEmptyResult(t *testing.T) {
	_, err := normalizeItems(nil)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = normalizeItems([]models.OrderItem{{Quantity: 0}})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{6}-\d{4}-\d{2}$`)

	for i := 0; i < 10; i++ {
		number := GenerateOrderNumber()
		assert.Regexp(t, pattern, number)
	}
}

func TestBuildItemsRequiresStore(t *testing.T) {
	t.Skip("Requires mocked store")
}
