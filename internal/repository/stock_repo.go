package repository

import (
	"errors"

	"go-stock-control/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockRepository interface {
	// Ensure returns the stock record for a product, creating it with
	// the default minimum on first use. When called inside a transaction
	// the returned row is locked for the rest of that transaction.
	Ensure(tx *gorm.DB, productID uuid.UUID) (*model.StockRecord, error)
	Save(tx *gorm.DB, record *model.StockRecord) error
	FindByProduct(productID uuid.UUID) (*model.StockRecord, error)
	FindAll() ([]model.StockRecord, error)
	FindLow() ([]model.StockRecord, error)
	Totals() (*StockTotals, error)
	Valuation() (*StockValuation, error)
}

// StockTotals aggregates counters across all stock records.
type StockTotals struct {
	TotalOnHand   int64 `json:"total_on_hand"`
	TotalReserved int64 `json:"total_reserved"`
	LowStockCount int64 `json:"low_stock_count"`
}

// StockValuation prices current stock at cost and at sale price.
type StockValuation struct {
	TotalCost      int64 `json:"total_cost"`
	TotalSaleValue int64 `json:"total_sale_value"`
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

// lockForUpdate adds a row lock so concurrent check-and-update sequences
// on the same record serialize. sqlite (used by tests) has no
// SELECT ... FOR UPDATE; its single-writer transaction lock covers it.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *stockRepo) Ensure(tx *gorm.DB, productID uuid.UUID) (*model.StockRecord, error) {
	var record model.StockRecord
	err := lockForUpdate(tx).Preload("Product").First(&record, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = model.StockRecord{ProductID: productID, Minimum: model.DefaultMinimum}
		if err := tx.Omit("Product").Create(&record).Error; err != nil {
			return nil, err
		}
		tx.First(&record.Product, "id = ?", productID)
		return &record, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *stockRepo) Save(tx *gorm.DB, record *model.StockRecord) error {
	return tx.Model(&model.StockRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"on_hand":  record.OnHand,
			"reserved": record.Reserved,
			"minimum":  record.Minimum,
		}).Error
}

func (r *stockRepo) FindByProduct(productID uuid.UUID) (*model.StockRecord, error) {
	var record model.StockRecord
	err := r.db.Preload("Product").First(&record, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrStockNotFound
	}
	return &record, err
}

func (r *stockRepo) FindAll() ([]model.StockRecord, error) {
	var records []model.StockRecord
	err := r.db.Preload("Product").Find(&records).Error
	return records, err
}

func (r *stockRepo) FindLow() ([]model.StockRecord, error) {
	var records []model.StockRecord
	err := r.db.Preload("Product").
		Where("on_hand - reserved < minimum").
		Find(&records).Error
	return records, err
}

func (r *stockRepo) Totals() (*StockTotals, error) {
	var totals StockTotals

	err := r.db.Model(&model.StockRecord{}).
		Select("COALESCE(SUM(on_hand), 0)").Scan(&totals.TotalOnHand).Error
	if err != nil {
		return nil, err
	}
	err = r.db.Model(&model.StockRecord{}).
		Select("COALESCE(SUM(reserved), 0)").Scan(&totals.TotalReserved).Error
	if err != nil {
		return nil, err
	}
	err = r.db.Model(&model.StockRecord{}).
		Where("on_hand - reserved < minimum").
		Count(&totals.LowStockCount).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *stockRepo) Valuation() (*StockValuation, error) {
	var valuation StockValuation

	err := r.db.Model(&model.StockRecord{}).
		Joins("JOIN products ON products.id = stock_records.product_id").
		Select("COALESCE(SUM(stock_records.on_hand * products.cost_price), 0)").
		Scan(&valuation.TotalCost).Error
	if err != nil {
		return nil, err
	}
	err = r.db.Model(&model.StockRecord{}).
		Joins("JOIN products ON products.id = stock_records.product_id").
		Select("COALESCE(SUM(stock_records.on_hand * products.sale_price), 0)").
		Scan(&valuation.TotalSaleValue).Error
	if err != nil {
		return nil, err
	}
	return &valuation, nil
}
