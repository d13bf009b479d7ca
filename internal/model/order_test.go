package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusPredicates(t *testing.T) {
	assert.True(t, OrderPending.IsReserving())
	assert.True(t, OrderInTransit.IsReserving())
	assert.False(t, OrderCompleted.IsReserving())
	assert.False(t, OrderCancelled.IsReserving())

	assert.True(t, OrderCompleted.IsTerminal())
	assert.True(t, OrderCancelled.IsTerminal())
	assert.False(t, OrderPending.IsTerminal())
	assert.False(t, OrderInTransit.IsTerminal())

	assert.True(t, OrderPending.Valid())
	assert.False(t, OrderStatus("SHIPPED").Valid())
}

func TestOrderDaysOverdue(t *testing.T) {
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	due := today.AddDate(0, 0, -3)

	order := &Order{Status: OrderPending, DueDate: &due}
	assert.Equal(t, 3, order.DaysOverdue(today))

	order.Status = OrderCompleted
	assert.Equal(t, 0, order.DaysOverdue(today))

	order.Status = OrderPending
	future := today.AddDate(0, 0, 2)
	order.DueDate = &future
	assert.Equal(t, 0, order.DaysOverdue(today))

	order.DueDate = nil
	assert.Equal(t, 0, order.DaysOverdue(today))
}

func TestProductValidatePricing(t *testing.T) {
	product := &Product{Name: "Harina", CostPrice: 1000, SalePrice: 1500}
	assert.NoError(t, product.ValidatePricing())

	product.SalePrice = 900
	err := product.ValidatePricing()
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	// Selling at cost is allowed.
	product.SalePrice = 1000
	assert.NoError(t, product.ValidatePricing())
}
