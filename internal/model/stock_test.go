package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockRecordReserve(t *testing.T) {
	record := &StockRecord{OnHand: 10, Reserved: 0, Minimum: 2}

	require.NoError(t, record.Reserve(4))
	assert.Equal(t, 4, record.Reserved)
	assert.Equal(t, 6, record.Available())

	// A second reservation may only draw against what is left.
	require.NoError(t, record.Reserve(6))
	assert.Equal(t, 10, record.Reserved)
	assert.Equal(t, 0, record.Available())

	err := record.Reserve(1)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Requested)
	assert.Equal(t, 0, stockErr.Available)

	// Failed reservation leaves the counters untouched.
	assert.Equal(t, 10, record.OnHand)
	assert.Equal(t, 10, record.Reserved)
}

func TestStockRecordReserveNeverExceedsOnHand(t *testing.T) {
	record := &StockRecord{OnHand: 5, Reserved: 3}

	err := record.Reserve(3)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.LessOrEqual(t, record.Reserved, record.OnHand)
}

func TestStockRecordReleaseClampsAtZero(t *testing.T) {
	record := &StockRecord{OnHand: 10, Reserved: 4}

	record.Release(4)
	assert.Equal(t, 0, record.Reserved)

	// Double release is tolerated: never negative.
	record.Release(4)
	assert.Equal(t, 0, record.Reserved)

	record.Reserved = 3
	record.Release(5)
	assert.Equal(t, 0, record.Reserved)
}

func TestStockRecordNeedsReplenishment(t *testing.T) {
	record := &StockRecord{OnHand: 10, Reserved: 0, Minimum: 2}
	assert.False(t, record.NeedsReplenishment())

	record.Reserved = 9
	assert.True(t, record.NeedsReplenishment())

	// Boundary: available == minimum is not low stock.
	record.Reserved = 8
	assert.False(t, record.NeedsReplenishment())
}
