package service

import (
	"testing"
	"time"

	"go-stock-control/internal/model"
	"go-stock-control/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderReservesStock(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Comercial Andes")
	product := env.createProduct(t, "Harina", 1000, 1500)
	env.addStock(t, product, 10)

	order, err := env.orders.Create(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, order.Status)
	require.Len(t, order.Items, 1)

	record := env.getStock(t, product)
	assert.Equal(t, 10, record.OnHand)
	assert.Equal(t, 4, record.Reserved)
	assert.Equal(t, 6, record.Available())

	// Reservation is not a movement: the ledger stays empty.
	entries, err := env.stock.ListLedger(repository.LedgerFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateOrderInsufficientStockIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Comercial Andes")
	flour := env.createProduct(t, "Harina", 1000, 1500)
	oil := env.createProduct(t, "Aceite", 2000, 2600)
	env.addStock(t, flour, 10)
	env.addStock(t, oil, 2)

	_, err := env.orders.Create(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items: []OrderItemRequest{
			{ProductID: flour.ID, Quantity: 4},
			{ProductID: oil.ID, Quantity: 5},
		},
	})
	var stockErr *model.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	// Neither item's stock was reserved and no order survived.
	assert.Equal(t, 0, env.getStock(t, flour).Reserved)
	assert.Equal(t, 0, env.getStock(t, oil).Reserved)
	orders, err := env.orders.List(repository.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCompleteOrderConsumesStock(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Comercial Andes")
	product := env.createProduct(t, "Harina", 1000, 1500)
	env.addStock(t, product, 10)

	order, err := env.orders.Create(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	completed, err := env.orders.Complete(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCompleted, completed.Status)

	record := env.getStock(t, product)
	assert.Equal(t, 6, record.OnHand)
	assert.Equal(t, 0, record.Reserved)

	entries, err := env.stock.ListLedger(repository.LedgerFilter{Kind: model.MovementEgress})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 4, entries[0].Quantity)
	require.NotNil(t, entries[0].OrderID)
	assert.Equal(t, order.ID, *entries[0].OrderID)
}

func TestCompleteOrderInsufficientOnHandAborts(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Comercial Andes")
	product := env.createProduct(t, "Harina", 1000, 1500)
	env.addStock(t, product, 10)

	order, err := env.orders.Create(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 8}},
	})
	require.NoError(t, err)

	// Physical stock disappears out from under the reservation.
	require.NoError(t, env.db.Model(&model.StockRecord{}).
		Where("product_id = ?", product.ID).
		Updates(map[string]interface{}{"on_hand": 5, "reserved": 5}).Error)

	_, err = env.orders.Complete(order.ID)
	var stockErr *model.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 8, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)

	// Transition fully rolled back: still pending, counters unchanged,
	// no egress written.
	reloaded, err := env.orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, reloaded.Status)
	record := env.getStock(t, product)
	assert.Equal(t, 5, record.OnHand)
	assert.Equal(t, 5, record.Reserved)
	entries, err := env.stock.ListLedger(repository.LedgerFilter{Kind: model.MovementEgress})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCancelOrderReleasesReservation(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Comercial Andes")
	product := env.createProduct(t, "Harina", 1000, 1500)
	env.addStock(t, product, 10)

	order, err := env.orders.Create(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	cancelled, err := env.orders.Cancel(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)

	record := env.getStock(t, product)
	assert.Equal(t, 10, record.OnHand)
	assert.Equal(t, 0, record.Reserved)

	// Cancelling moves nothing physically: no ledger entry.
	entries, err := env.stock.ListLedger(repository.LedgerFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTerminalOrdersRejectTransitions(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Comercial Andes")
	product := env.createProduct(t, "Harina", 1000, 1500)
	env.addStock(t, product, 10)

	order, err := env.orders.Create(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	_, err = env.orders.Complete(order.ID)
	require.NoError(t, err)

	var transitionErr *model.IllegalTransitionError

	_, err = env.orders.Cancel(order.ID)
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, model.OrderCompleted, transitionErr.From)

	_, err = env.orders.Complete(order.ID)
	require.ErrorAs(t, err, &transitionErr)

	_, err = env.orders.Update(order.ID, &UpdateOrderRequest{
		SupplierID: supplier.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.ErrorAs(t, err, &transitionErr)

	// Completing twice must not consume stock twice.
	record := env.getStock(t, product)
	assert.Equal(t, 6, record.OnHand)
	assert.Equal(t, 0, record.Reserved)
}

func TestUpdateOrderRereservesNewItemSet(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Comercial Andes")
	flour := env.createProduct(t, "Harina", 1000, 1500)
	oil := env.createProduct(t, "Aceite", 2000, 2600)
	env.addStock(t, flour, 10)
	env.addStock(t, oil, 10)

	order, err := env.orders.Create(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items:      []OrderItemRequest{{ProductID: flour.ID, Quantity: 6}},
	})
	require.NoError(t, err)

	updated, err := env.orders.Update(order.ID, &UpdateOrderRequest{
		SupplierID: supplier.ID,
		Status:     model.OrderInTransit,
		Items: []OrderItemRequest{
			{ProductID: flour.ID, Quantity: 2},
			{ProductID: oil.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderInTransit, updated.Status)
	require.Len(t, updated.Items, 2)

	assert.Equal(t, 2, env.getStock(t, flour).Reserved)
	assert.Equal(t, 3, env.getStock(t, oil).Reserved)
}

func TestUpdateOrderFailedRereservationKeepsPriorState(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Comercial Andes")
	product := env.createProduct(t, "Harina", 1000, 1500)
	env.addStock(t, product, 10)

	order, err := env.orders.Create(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 6}},
	})
	require.NoError(t, err)

	// Releasing 6 and re-reserving 12 exceeds on-hand 10: rejected.
	_, err = env.orders.Update(order.ID, &UpdateOrderRequest{
		SupplierID: supplier.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 12}},
	})
	var stockErr *model.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	// The order keeps its prior items and the reservation is intact.
	reloaded, err := env.orders.GetByID(order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, 6, reloaded.Items[0].Quantity)
	assert.Equal(t, 6, env.getStock(t, product).Reserved)
}

func TestDeleteOrderReleasesReservation(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Comercial Andes")
	product := env.createProduct(t, "Harina", 1000, 1500)
	env.addStock(t, product, 10)

	order, err := env.orders.Create(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	require.NoError(t, env.orders.Delete(order.ID))

	assert.Equal(t, 0, env.getStock(t, product).Reserved)
	_, err = env.orders.GetByID(order.ID)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestCreateOrderValidations(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Comercial Andes")
	product := env.createProduct(t, "Harina", 1000, 1500)
	env.addStock(t, product, 10)

	var validationErr *model.ValidationError

	// No items.
	_, err := env.orders.Create(&CreateOrderRequest{SupplierID: supplier.ID})
	require.ErrorAs(t, err, &validationErr)

	// Non-positive quantity.
	_, err = env.orders.Create(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 0}},
	})
	require.ErrorAs(t, err, &validationErr)

	// Due date in the past.
	past := time.Now().AddDate(0, 0, -1)
	_, err = env.orders.Create(&CreateOrderRequest{
		SupplierID: supplier.ID,
		DueDate:    &past,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.ErrorAs(t, err, &validationErr)

	// Terminal initial state.
	_, err = env.orders.Create(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Status:     model.OrderCompleted,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.ErrorAs(t, err, &validationErr)

	// Unknown supplier.
	_, err = env.orders.Create(&CreateOrderRequest{
		SupplierID: product.ID, // not a supplier id
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, model.ErrSupplierNotFound)

	// Nothing got reserved along the way.
	assert.Equal(t, 0, env.getStock(t, product).Reserved)
}

func TestOverdueOrders(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Comercial Andes")
	product := env.createProduct(t, "Harina", 1000, 1500)
	env.addStock(t, product, 10)

	order, err := env.orders.Create(&CreateOrderRequest{
		SupplierID: supplier.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	// Backdate the due date; the past-date guard only applies at
	// create/update time.
	pastDue := time.Now().AddDate(0, 0, -3)
	require.NoError(t, env.db.Model(&model.Order{}).
		Where("id = ?", order.ID).
		Update("due_date", pastDue).Error)

	overdue, err := env.orders.Overdue()
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, order.ID, overdue[0].Order.ID)
	assert.GreaterOrEqual(t, overdue[0].DaysOverdue, 2)

	// Completed orders are never overdue.
	_, err = env.orders.Complete(order.ID)
	require.NoError(t, err)
	overdue, err = env.orders.Overdue()
	require.NoError(t, err)
	assert.Empty(t, overdue)
}
