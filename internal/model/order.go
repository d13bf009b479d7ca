package model

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderInTransit OrderStatus = "IN_TRANSIT"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderInTransit, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// IsReserving reports whether orders in this status hold stock reservations.
func (s OrderStatus) IsReserving() bool {
	return s == OrderPending || s == OrderInTransit
}

// Order is a purchase order against a single supplier. It owns its
// items exclusively: deleting the order deletes them.
type Order struct {
	BaseModel
	SupplierID uuid.UUID   `gorm:"type:uuid;not null;index" json:"supplier_id" validate:"uuid_required"`
	Supplier   Supplier    `json:"supplier,omitempty" validate:"-"`
	DueDate    *time.Time  `gorm:"type:date" json:"due_date,omitempty"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Items      []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty" validate:"-"`
}

// DaysOverdue returns how many days past due a still-pending order is,
// or 0 when it is not overdue.
func (o *Order) DaysOverdue(today time.Time) int {
	if o.DueDate == nil || o.Status != OrderPending {
		return 0
	}
	days := int(today.Sub(*o.DueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product   Product   `json:"product,omitempty" validate:"-"`
	Quantity  int       `gorm:"not null" json:"quantity" validate:"required,gt=0"`
}
