package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentsFromDecimal(t *testing.T) {
	cents, err := CentsFromDecimal(12.50)
	assert.NoError(t, err)
	assert.Equal(t, int64(1250), cents)

	cents, err = CentsFromDecimal(0.01)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), cents)

	cents, err = CentsFromDecimal(99)
	assert.NoError(t, err)
	assert.Equal(t, int64(9900), cents)
}

func TestCentsFromDecimalRejectsNonPositive(t *testing.T) {
	_, err := CentsFromDecimal(0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CentsFromDecimal(-3.50)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCentsFromDecimalRejectsSubCentPrecision(t *testing.T) {
	_, err := CentsFromDecimal(1.999)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CentsFromDecimal(0.005)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDecimalFromCents(t *testing.T) {
	assert.Equal(t, 12.5, DecimalFromCents(1250))
	assert.Equal(t, 0.0, DecimalFromCents(0))
}
