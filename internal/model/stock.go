package model

import "github.com/google/uuid"

// DefaultMinimum is the replenishment threshold assigned when a stock
// record is created on demand.
const DefaultMinimum = 10

// StockRecord holds the per-product counters. Invariant after every
// mutation: 0 <= Reserved <= OnHand.
type StockRecord struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"product_id"`
	Product   Product   `json:"product,omitempty" validate:"-"`
	OnHand    int       `gorm:"not null;default:0" json:"on_hand"`
	Reserved  int       `gorm:"not null;default:0" json:"reserved"`
	Minimum   int       `gorm:"not null;default:10" json:"minimum" validate:"gte=1"`
}

// Available is the quantity a new commitment may draw against.
func (s *StockRecord) Available() int {
	return s.OnHand - s.Reserved
}

// NeedsReplenishment reports whether available stock fell below the minimum.
func (s *StockRecord) NeedsReplenishment() bool {
	return s.Available() < s.Minimum
}

// Reserve places a soft hold on stock. It never lets reservations
// exceed physical stock.
func (s *StockRecord) Reserve(quantity int) error {
	if quantity > s.Available() {
		return &InsufficientStockError{
			Product:   s.productLabel(),
			Requested: quantity,
			Available: s.Available(),
		}
	}
	s.Reserved += quantity
	return nil
}

// Release undoes a reservation, clamped at zero. Releasing more than is
// held is tolerated, never driving Reserved negative.
func (s *StockRecord) Release(quantity int) {
	s.Reserved = clampSub(s.Reserved, quantity)
}

// clampSub is the single subtract-with-floor-at-zero primitive; every
// release path goes through it.
func clampSub(value, sub int) int {
	if sub >= value {
		return 0
	}
	return value - sub
}

func (s *StockRecord) productLabel() string {
	if s.Product.Name != "" {
		return s.Product.Name
	}
	return s.ProductID.String()
}
