package models

import (
	"fmt"
	"math"
)

// CentsFromDecimal converts a decimal price (as accepted on the wire) into
// integer cents. Prices must be positive and carry at most two decimal
// places.
func CentsFromDecimal(price float64) (int64, error) {
	if price <= 0 {
		return 0, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	cents := price * 100
	rounded := math.Round(cents)
	if math.Abs(cents-rounded) > 1e-6 {
		return 0, fmt.Errorf("%w: price must have at most two decimal places", ErrValidation)
	}
	return int64(rounded), nil
}

// DecimalFromCents renders integer cents back to a decimal amount.
func DecimalFromCents(cents int64) float64 {
	return float64(cents) / 100
}
