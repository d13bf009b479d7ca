package repository

import (
	"errors"
	"time"

	"go-stock-control/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	Save(tx *gorm.DB, order *model.Order) error
	ReplaceItems(tx *gorm.DB, order *model.Order, items []model.OrderItem) error
	Delete(tx *gorm.DB, order *model.Order) error
	// FindForUpdate loads an order with its items inside a transaction,
	// locking the order row so concurrent transitions serialize.
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	FindByID(id uuid.UUID) (*model.Order, error)
	Find(filter OrderFilter) ([]model.Order, error)
	FindOverduePending(today time.Time) ([]model.Order, error)
}

type OrderFilter struct {
	Status     model.OrderStatus
	SupplierID *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepo) Save(tx *gorm.DB, order *model.Order) error {
	return tx.Omit("Items", "Supplier").Save(order).Error
}

// ReplaceItems swaps the order's item set. Old rows are removed for good
// (not soft-deleted) so re-created items never collide with them.
func (r *orderRepo) ReplaceItems(tx *gorm.DB, order *model.Order, items []model.OrderItem) error {
	if err := tx.Unscoped().Where("order_id = ?", order.ID).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
		items[i].ID = uuid.Nil
		if err := tx.Create(&items[i]).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

func (r *orderRepo) Delete(tx *gorm.DB, order *model.Order) error {
	if err := tx.Where("order_id = ?", order.ID).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(order).Error
}

func (r *orderRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := lockForUpdate(tx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Preload("Product").Where("order_id = ?", id).Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Supplier").Preload("Items.Product").First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrOrderNotFound
	}
	return &order, err
}

func (r *orderRepo) Find(filter OrderFilter) ([]model.Order, error) {
	q := r.db.Preload("Supplier").Preload("Items.Product").Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.SupplierID != nil {
		q = q.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.FromDate != nil {
		q = q.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("created_at <= ?", *filter.ToDate)
	}

	var orders []model.Order
	err := q.Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindOverduePending(today time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Supplier").Preload("Items.Product").
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", model.OrderPending, today).
		Order("due_date ASC").
		Find(&orders).Error
	return orders, err
}
