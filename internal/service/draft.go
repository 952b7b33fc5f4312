package service

import (
	"fmt"

	"qr-table-service/internal/models"
)

// Draft is the in-memory working copy of an order's item set used by the
// waiter edit screen. Changes are staged here and committed in one call to
// EditOrderItems; nothing is persisted until then.
type Draft struct {
	items []models.OrderItem
}

// NewDraft starts a working copy from an order's current items.
func NewDraft(order *models.Order) *Draft {
	items := make([]models.OrderItem, len(order.Items))
	copy(items, order.Items)
	return &Draft{items: items}
}

// SetItemQuantity updates a line's quantity; zero removes the line and
// negative quantities are rejected, same as the commit path. Subtotals
// follow the snapshotted product price.
func (d *Draft) SetItemQuantity(itemID string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", models.ErrValidation)
	}
	if quantity == 0 {
		kept := d.items[:0]
		for _, item := range d.items {
			if item.ID != itemID {
				kept = append(kept, item)
			}
		}
		d.items = kept
		return nil
	}

	for i := range d.items {
		if d.items[i].ID == itemID {
			d.items[i].Quantity = quantity
			d.items[i].SubtotalCents = d.items[i].ProductPriceCents * int64(quantity)
			return nil
		}
	}
	return nil
}

// AddItem adds one unit of a product: an existing line for the product is
// incremented, otherwise a new line with quantity 1 is appended with the
// product's current price snapshotted.
func (d *Draft) AddItem(product *models.Product) {
	for i := range d.items {
		if d.items[i].ProductID == product.ID {
			d.items[i].Quantity++
			d.items[i].SubtotalCents = d.items[i].ProductPriceCents * int64(d.items[i].Quantity)
			return
		}
	}

	d.items = append(d.items, models.OrderItem{
		ProductID:         product.ID,
		ProductName:       product.Name,
		ProductPriceCents: product.PriceCents,
		Quantity:          1,
		SubtotalCents:     product.PriceCents,
	})
}

// Items returns the staged item set.
func (d *Draft) Items() []models.OrderItem {
	return d.items
}

// Total sums the staged subtotals.
func (d *Draft) Total() int64 {
	var total int64
	for _, item := range d.items {
		total += item.SubtotalCents
	}
	return total
}
