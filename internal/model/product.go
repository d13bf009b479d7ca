package model

type Product struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	Description string `json:"description"`
	Unit        string `gorm:"type:varchar(20)" json:"unit"` // e.g. kg, unidad
	CostPrice   int64  `gorm:"not null;default:0" json:"cost_price" validate:"gte=0"`
	SalePrice   int64  `gorm:"not null;default:0" json:"sale_price" validate:"gte=0"`
}

// ValidatePricing enforces that a product is never listed below cost.
func (p *Product) ValidatePricing() error {
	if p.SalePrice < p.CostPrice {
		return NewValidationError("sale price %d is below cost price %d for product %q",
			p.SalePrice, p.CostPrice, p.Name)
	}
	return nil
}

// Margin is the per-unit profit at current prices.
func (p *Product) Margin() int64 {
	return p.SalePrice - p.CostPrice
}
