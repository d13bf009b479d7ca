package repository

import (
	"time"

	"go-stock-control/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerRepository is append-only: entries are created and queried,
// never updated or deleted.
type LedgerRepository interface {
	Append(tx *gorm.DB, entry *model.LedgerEntry) error
	Find(filter LedgerFilter) ([]model.LedgerEntry, error)
	SumByKind(productID uuid.UUID, kind model.MovementKind) (int64, error)
	RealizedMargin() (int64, error)
	MovementSeries(startDate, endDate time.Time) ([]MovementData, error)
}

type LedgerFilter struct {
	Kind     model.MovementKind
	FromDate *time.Time
	ToDate   *time.Time
}

// MovementData aggregates one day of movements for chart data.
type MovementData struct {
	Date    string `json:"date"`
	Ingress int    `json:"ingress"`
	Egress  int    `json:"egress"`
}

type ledgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepository {
	return &ledgerRepo{db}
}

func (r *ledgerRepo) Append(tx *gorm.DB, entry *model.LedgerEntry) error {
	return tx.Create(entry).Error
}

func (r *ledgerRepo) Find(filter LedgerFilter) ([]model.LedgerEntry, error) {
	q := r.db.Preload("StockRecord.Product").Order("created_at DESC")
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if filter.FromDate != nil {
		q = q.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("created_at <= ?", *filter.ToDate)
	}

	var entries []model.LedgerEntry
	err := q.Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) SumByKind(productID uuid.UUID, kind model.MovementKind) (int64, error) {
	var total int64
	err := r.db.Model(&model.LedgerEntry{}).
		Joins("JOIN stock_records ON stock_records.id = ledger_entries.stock_record_id").
		Where("stock_records.product_id = ? AND ledger_entries.kind = ?", productID, kind).
		Select("COALESCE(SUM(ledger_entries.quantity), 0)").
		Scan(&total).Error
	return total, err
}

// RealizedMargin sums quantity * (sale - cost) over all egress entries.
func (r *ledgerRepo) RealizedMargin() (int64, error) {
	var margin int64
	err := r.db.Model(&model.LedgerEntry{}).
		Joins("JOIN stock_records ON stock_records.id = ledger_entries.stock_record_id").
		Joins("JOIN products ON products.id = stock_records.product_id").
		Where("ledger_entries.kind = ?", model.MovementEgress).
		Select("COALESCE(SUM(ledger_entries.quantity * (products.sale_price - products.cost_price)), 0)").
		Scan(&margin).Error
	return margin, err
}

func (r *ledgerRepo) MovementSeries(startDate, endDate time.Time) ([]MovementData, error) {
	var results []MovementData

	rows, err := r.db.Model(&model.LedgerEntry{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN kind = 'INGRESS' THEN quantity ELSE 0 END), 0) as ingress,
			COALESCE(SUM(CASE WHEN kind = 'EGRESS' THEN quantity ELSE 0 END), 0) as egress
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data MovementData
		if err := rows.Scan(&data.Date, &data.Ingress, &data.Egress); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
