package model

import "github.com/google/uuid"

type MovementKind string

const (
	MovementIngress MovementKind = "INGRESS"
	MovementEgress  MovementKind = "EGRESS"
)

// LedgerEntry is one stock movement. Entries are created and never
// updated or deleted: total ingress minus total egress per product
// reconciles with its on-hand history.
type LedgerEntry struct {
	BaseModel
	StockRecordID uuid.UUID    `gorm:"type:uuid;not null;index" json:"stock_record_id" validate:"uuid_required"`
	StockRecord   StockRecord  `json:"stock_record,omitempty" validate:"-"`
	Kind          MovementKind `gorm:"type:varchar(10);not null" json:"kind" validate:"required,oneof=INGRESS EGRESS"`
	Quantity      int          `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Description   string       `json:"description"`

	// Set when the movement was produced by completing an order.
	OrderID *uuid.UUID `gorm:"type:uuid;index" json:"order_id,omitempty"`
}
