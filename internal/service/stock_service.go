package service

import (
	"go-stock-control/internal/model"
	"go-stock-control/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockNotifier receives stock events after a transaction commits.
// Implementations must be fire and forget: delivery failure never
// reaches the transaction that produced the event.
type StockNotifier interface {
	NotifyLowStock(product string, available, minimum int)
	NotifyStockChanged(product string, onHand, reserved int)
}

type StockService interface {
	// Direct movements, each in its own transaction.
	RecordIngress(productID uuid.UUID, quantity int, description string) (*model.StockRecord, error)
	RecordEgress(productID uuid.UUID, quantity int, description string) (*model.StockRecord, error)

	// Queries.
	GetStock(productID uuid.UUID) (*model.StockRecord, error)
	ListStock() ([]model.StockRecord, error)
	ListLowStock() ([]model.StockRecord, error)
	ListLedger(filter repository.LedgerFilter) ([]model.LedgerEntry, error)

	// Transaction-scoped primitives shared with the order engine. They
	// mutate the locked record and persist it through tx; any returned
	// error must abort the enclosing transaction.
	Ensure(tx *gorm.DB, productID uuid.UUID) (*model.StockRecord, error)
	AdjustOnHand(tx *gorm.DB, record *model.StockRecord, delta int, kind model.MovementKind, description string, orderID *uuid.UUID) error
	Reserve(tx *gorm.DB, record *model.StockRecord, quantity int) error
	Release(tx *gorm.DB, record *model.StockRecord, quantity int) error

	// NotifyAfterCommit dispatches best-effort notifications for the
	// given records. Call it only after the transaction committed.
	NotifyAfterCommit(records ...*model.StockRecord)
}

type stockService struct {
	stockRepo   repository.StockRepository
	ledgerRepo  repository.LedgerRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
	notifier    StockNotifier
}

func NewStockService(
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
	notifier StockNotifier,
) StockService {
	return &stockService{
		stockRepo:   stockRepo,
		ledgerRepo:  ledgerRepo,
		productRepo: productRepo,
		db:          db,
		notifier:    notifier,
	}
}

func (s *stockService) RecordIngress(productID uuid.UUID, quantity int, description string) (*model.StockRecord, error) {
	if quantity <= 0 {
		return nil, model.NewValidationError("ingress quantity must be positive, got %d", quantity)
	}
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return nil, err
	}

	var record *model.StockRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = s.stockRepo.Ensure(tx, productID)
		if err != nil {
			return err
		}
		return s.AdjustOnHand(tx, record, quantity, model.MovementIngress, description, nil)
	})
	if err != nil {
		return nil, err
	}

	s.NotifyAfterCommit(record)
	return record, nil
}

func (s *stockService) RecordEgress(productID uuid.UUID, quantity int, description string) (*model.StockRecord, error) {
	if quantity <= 0 {
		return nil, model.NewValidationError("egress quantity must be positive, got %d", quantity)
	}
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, err
	}

	var record *model.StockRecord
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = s.stockRepo.Ensure(tx, productID)
		if err != nil {
			return err
		}
		// Direct egress draws against available, not raw on-hand:
		// reserved stock is already committed to orders.
		if quantity > record.Available() {
			return &model.InsufficientStockError{
				Product:   product.Name,
				Requested: quantity,
				Available: record.Available(),
			}
		}
		return s.AdjustOnHand(tx, record, -quantity, model.MovementEgress, description, nil)
	})
	if err != nil {
		return nil, err
	}

	s.NotifyAfterCommit(record)
	return record, nil
}

// AdjustOnHand applies a signed delta to on-hand stock and appends the
// matching ledger entry. It rejects any delta that would drive on-hand
// negative.
func (s *stockService) AdjustOnHand(tx *gorm.DB, record *model.StockRecord, delta int, kind model.MovementKind, description string, orderID *uuid.UUID) error {
	next := record.OnHand + delta
	if next < 0 {
		return &model.InsufficientStockError{
			Product:   record.Product.Name,
			Requested: -delta,
			Available: record.OnHand,
		}
	}
	record.OnHand = next
	if err := s.stockRepo.Save(tx, record); err != nil {
		return err
	}

	quantity := delta
	if quantity < 0 {
		quantity = -quantity
	}
	entry := &model.LedgerEntry{
		StockRecordID: record.ID,
		Kind:          kind,
		Quantity:      quantity,
		Description:   description,
		OrderID:       orderID,
	}
	return s.ledgerRepo.Append(tx, entry)
}

func (s *stockService) Reserve(tx *gorm.DB, record *model.StockRecord, quantity int) error {
	if err := record.Reserve(quantity); err != nil {
		return err
	}
	return s.stockRepo.Save(tx, record)
}

func (s *stockService) Release(tx *gorm.DB, record *model.StockRecord, quantity int) error {
	record.Release(quantity)
	return s.stockRepo.Save(tx, record)
}

func (s *stockService) Ensure(tx *gorm.DB, productID uuid.UUID) (*model.StockRecord, error) {
	return s.stockRepo.Ensure(tx, productID)
}

func (s *stockService) NotifyAfterCommit(records ...*model.StockRecord) {
	if s.notifier == nil {
		return
	}
	for _, record := range records {
		rec := *record
		go func() {
			s.notifier.NotifyStockChanged(rec.Product.Name, rec.OnHand, rec.Reserved)
			if rec.NeedsReplenishment() {
				s.notifier.NotifyLowStock(rec.Product.Name, rec.Available(), rec.Minimum)
			}
		}()
	}
}

func (s *stockService) GetStock(productID uuid.UUID) (*model.StockRecord, error) {
	return s.stockRepo.FindByProduct(productID)
}

func (s *stockService) ListStock() ([]model.StockRecord, error) {
	return s.stockRepo.FindAll()
}

func (s *stockService) ListLowStock() ([]model.StockRecord, error) {
	return s.stockRepo.FindLow()
}

func (s *stockService) ListLedger(filter repository.LedgerFilter) ([]model.LedgerEntry, error) {
	return s.ledgerRepo.Find(filter)
}
