package service

import (
	"testing"

	"qr-table-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func draftOrder() *models.Order {
	return &models.Order{
		Items: []models.OrderItem{
			{ID: "i1", ProductID: "p1", ProductName: "Nasi Goreng", ProductPriceCents: 2500, Quantity: 2, SubtotalCents: 5000},
			{ID: "i2", ProductID: "p2", ProductName: "Es Teh", ProductPriceCents: 500, Quantity: 1, SubtotalCents: 500},
		},
	}
}

func TestDraftSetItemQuantity(t *testing.T) {
	d := NewDraft(draftOrder())

	assert.NoError(t, d.SetItemQuantity("i1", 3))

	items := d.Items()
	assert.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, int64(7500), items[0].SubtotalCents)
	assert.Equal(t, int64(8000), d.Total())
}

func TestDraftSetItemQuantityZeroRemoves(t *testing.T) {
	d := NewDraft(draftOrder())

	assert.NoError(t, d.SetItemQuantity("i2", 0))

	items := d.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, "i1", items[0].ID)
	assert.Equal(t, int64(5000), d.Total())
}

func TestDraftSetItemQuantityRejectsNegative(t *testing.T) {
	d := NewDraft(draftOrder())

	// Same contract as the commit path: negative is an error, not a
	// removal.
	err := d.SetItemQuantity("i1", -1)
	assert.ErrorIs(t, err, models.ErrValidation)

	items := d.Items()
	assert.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(5500), d.Total())
}

func TestDraftSetItemQuantityUnknownIDNoop(t *testing.T) {
	d := NewDraft(draftOrder())

	assert.NoError(t, d.SetItemQuantity("missing", 5))

	assert.Len(t, d.Items(), 2)
	assert.Equal(t, int64(5500), d.Total())
}

func TestDraftAddItemNewProduct(t *testing.T) {
	d := NewDraft(draftOrder())

	d.AddItem(&models.Product{ID: "p3", Name: "Sate Ayam", PriceCents: 3000})

	items := d.Items()
	assert.Len(t, items, 3)
	assert.Equal(t, "Sate Ayam", items[2].ProductName)
	assert.Equal(t, 1, items[2].Quantity)
	assert.Equal(t, int64(3000), items[2].SubtotalCents)
	assert.Equal(t, int64(8500), d.Total())
}

func TestDraftAddItemIncrementsExistingLine(t *testing.T) {
	d := NewDraft(draftOrder())

	// Catalog price changed since the order was placed; the line keeps its
	// snapshotted price.
	d.AddItem(&models.Product{ID: "p2", Name: "Es Teh", PriceCents: 700})

	items := d.Items()
	assert.Len(t, items, 2)
	assert.Equal(t, 2, items[1].Quantity)
	assert.Equal(t, int64(1000), items[1].SubtotalCents)
}

func TestDraftDoesNotMutateSourceOrder(t *testing.T) {
	order := draftOrder()
	d := NewDraft(order)

	assert.NoError(t, d.SetItemQuantity("i1", 9))

	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, int64(5000), order.Items[0].SubtotalCents)
}
