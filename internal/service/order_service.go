package service

import (
	"fmt"
	"sort"
	"time"

	"go-stock-control/internal/model"
	"go-stock-control/internal/repository"
	"go-stock-control/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	SupplierID uuid.UUID          `json:"supplier_id" validate:"uuid_required"`
	DueDate    *time.Time         `json:"due_date" validate:"omitempty,not_past_date"`
	Status     model.OrderStatus  `json:"status"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	SupplierID uuid.UUID          `json:"supplier_id" validate:"uuid_required"`
	DueDate    *time.Time         `json:"due_date" validate:"omitempty,not_past_date"`
	Status     model.OrderStatus  `json:"status"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OverdueOrder is a pending order past its due date.
type OverdueOrder struct {
	Order       model.Order `json:"order"`
	DaysOverdue int         `json:"days_overdue"`
}

// OrderService is the order lifecycle engine. Every transition runs in
// one transaction: it validates availability against locked stock
// records, mutates them, and appends ledger entries, or rolls the whole
// thing back.
//
// Pending and InTransit orders hold reservations; Completed and
// Cancelled are terminal.
type OrderService interface {
	Create(req *CreateOrderRequest) (*model.Order, error)
	Update(id uuid.UUID, req *UpdateOrderRequest) (*model.Order, error)
	Complete(id uuid.UUID) (*model.Order, error)
	Cancel(id uuid.UUID) (*model.Order, error)
	Delete(id uuid.UUID) error
	GetByID(id uuid.UUID) (*model.Order, error)
	List(filter repository.OrderFilter) ([]model.Order, error)
	Overdue() ([]OverdueOrder, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	stock        StockService
	db           *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	stock StockService,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		stock:        stock,
		db:           db,
	}
}

func (s *orderService) Create(req *CreateOrderRequest) (*model.Order, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, &model.ValidationError{Message: validator.FirstErrorMessage(errs)}
	}
	if req.Status == "" {
		req.Status = model.OrderPending
	}
	if !req.Status.IsReserving() {
		return nil, model.NewValidationError("new orders must start in %s or %s, got %s",
			model.OrderPending, model.OrderInTransit, req.Status)
	}
	if _, err := s.supplierRepo.FindByID(req.SupplierID); err != nil {
		return nil, err
	}
	if err := s.checkProductsExist(req.Items); err != nil {
		return nil, err
	}

	order := &model.Order{
		SupplierID: req.SupplierID,
		DueDate:    req.DueDate,
		Status:     req.Status,
		Items:      toOrderItems(req.Items),
	}

	var touched []*model.StockRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}
		var err error
		touched, err = s.reserveItems(tx, req.Items)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.stock.NotifyAfterCommit(touched...)
	return s.orderRepo.FindByID(order.ID)
}

// Update edits an order that still holds reservations. The prior
// reservation contribution is released, then the new item set is
// reserved; if re-reservation fails, the rollback restores the prior
// items and reservations untouched.
func (s *orderService) Update(id uuid.UUID, req *UpdateOrderRequest) (*model.Order, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, &model.ValidationError{Message: validator.FirstErrorMessage(errs)}
	}
	if req.Status != "" && !req.Status.IsReserving() {
		return nil, model.NewValidationError("use the complete or cancel transition to close an order, not an edit")
	}
	if _, err := s.supplierRepo.FindByID(req.SupplierID); err != nil {
		return nil, err
	}
	if err := s.checkProductsExist(req.Items); err != nil {
		return nil, err
	}

	var touched []*model.StockRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindForUpdate(tx, id)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return &model.IllegalTransitionError{OrderID: order.ID.String(), From: order.Status, To: req.Status}
		}

		released, err := s.releaseItems(tx, order.Items)
		if err != nil {
			return err
		}
		if err := s.orderRepo.ReplaceItems(tx, order, toOrderItems(req.Items)); err != nil {
			return err
		}
		reserved, err := s.reserveItems(tx, req.Items)
		if err != nil {
			return err
		}

		order.SupplierID = req.SupplierID
		order.DueDate = req.DueDate
		if req.Status != "" {
			order.Status = req.Status
		}
		if err := s.orderRepo.Save(tx, order); err != nil {
			return err
		}

		touched = append(released, reserved...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.stock.NotifyAfterCommit(touched...)
	return s.orderRepo.FindByID(id)
}

// Complete consumes on-hand stock for every item, releases the
// reservation, and appends one egress ledger entry per item tagged with
// the order. Any shortage aborts the whole transition.
func (s *orderService) Complete(id uuid.UUID) (*model.Order, error) {
	var touched []*model.StockRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindForUpdate(tx, id)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return &model.IllegalTransitionError{OrderID: order.ID.String(), From: order.Status, To: model.OrderCompleted}
		}

		for _, item := range sortedByProduct(order.Items) {
			record, err := s.stock.Ensure(tx, item.ProductID)
			if err != nil {
				return err
			}
			if record.OnHand < item.Quantity {
				return &model.InsufficientStockError{
					Product:   item.Product.Name,
					Requested: item.Quantity,
					Available: record.OnHand,
				}
			}
			if err := s.stock.Release(tx, record, item.Quantity); err != nil {
				return err
			}
			description := fmt.Sprintf("egress for completed order %s", order.ID)
			if err := s.stock.AdjustOnHand(tx, record, -item.Quantity, model.MovementEgress, description, &order.ID); err != nil {
				return err
			}
			touched = append(touched, record)
		}

		order.Status = model.OrderCompleted
		return s.orderRepo.Save(tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.stock.NotifyAfterCommit(touched...)
	return s.orderRepo.FindByID(id)
}

// Cancel releases the reservation held by the order. No ledger entry:
// nothing physical moved.
func (s *orderService) Cancel(id uuid.UUID) (*model.Order, error) {
	var touched []*model.StockRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindForUpdate(tx, id)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return &model.IllegalTransitionError{OrderID: order.ID.String(), From: order.Status, To: model.OrderCancelled}
		}

		touched, err = s.releaseItems(tx, order.Items)
		if err != nil {
			return err
		}

		order.Status = model.OrderCancelled
		return s.orderRepo.Save(tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.stock.NotifyAfterCommit(touched...)
	return s.orderRepo.FindByID(id)
}

// Delete removes the order and its items. A still-reserving order
// releases its reservation first, like a cancellation.
func (s *orderService) Delete(id uuid.UUID) error {
	var touched []*model.StockRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindForUpdate(tx, id)
		if err != nil {
			return err
		}

		if order.Status.IsReserving() {
			touched, err = s.releaseItems(tx, order.Items)
			if err != nil {
				return err
			}
		}
		return s.orderRepo.Delete(tx, order)
	})
	if err != nil {
		return err
	}

	s.stock.NotifyAfterCommit(touched...)
	return nil
}

func (s *orderService) GetByID(id uuid.UUID) (*model.Order, error) {
	return s.orderRepo.FindByID(id)
}

func (s *orderService) List(filter repository.OrderFilter) ([]model.Order, error) {
	return s.orderRepo.Find(filter)
}

func (s *orderService) Overdue() ([]OverdueOrder, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	orders, err := s.orderRepo.FindOverduePending(today)
	if err != nil {
		return nil, err
	}

	overdue := make([]OverdueOrder, 0, len(orders))
	for _, order := range orders {
		overdue = append(overdue, OverdueOrder{
			Order:       order,
			DaysOverdue: order.DaysOverdue(today),
		})
	}
	return overdue, nil
}

// reserveItems reserves stock for every item, locking records in
// product order so concurrent multi-item transitions cannot deadlock.
func (s *orderService) reserveItems(tx *gorm.DB, items []OrderItemRequest) ([]*model.StockRecord, error) {
	sorted := make([]OrderItemRequest, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID.String() < sorted[j].ProductID.String()
	})

	records := make([]*model.StockRecord, 0, len(sorted))
	for _, item := range sorted {
		record, err := s.stock.Ensure(tx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if err := s.stock.Reserve(tx, record, item.Quantity); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *orderService) releaseItems(tx *gorm.DB, items []model.OrderItem) ([]*model.StockRecord, error) {
	records := make([]*model.StockRecord, 0, len(items))
	for _, item := range sortedByProduct(items) {
		record, err := s.stock.Ensure(tx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if err := s.stock.Release(tx, record, item.Quantity); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *orderService) checkProductsExist(items []OrderItemRequest) error {
	for _, item := range items {
		if _, err := s.productRepo.FindByID(item.ProductID); err != nil {
			return err
		}
	}
	return nil
}

func toOrderItems(items []OrderItemRequest) []model.OrderItem {
	out := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, model.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}

func sortedByProduct(items []model.OrderItem) []model.OrderItem {
	sorted := make([]model.OrderItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID.String() < sorted[j].ProductID.String()
	})
	return sorted
}
