package service

import (
	"time"

	"go-stock-control/internal/repository"
)

// DashboardStats is the read-only aggregation the role dashboards show.
// Everything is derived live from stock records and the ledger; no
// report text is stored and re-parsed.
type DashboardStats struct {
	TotalProducts   int64 `json:"total_products"`
	TotalOnHand     int64 `json:"total_on_hand"`
	TotalReserved   int64 `json:"total_reserved"`
	TotalAvailable  int64 `json:"total_available"`
	LowStockCount   int64 `json:"low_stock_count"`
	InventoryCost   int64 `json:"inventory_cost"`
	InventoryValue  int64 `json:"inventory_value"`
	EstimatedMargin int64 `json:"estimated_margin"`
	RealizedMargin  int64 `json:"realized_margin"`
}

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetStockMovement(days int) ([]repository.MovementData, error)
}

type dashboardService struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	ledgerRepo  repository.LedgerRepository
}

func NewDashboardService(
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
) DashboardService {
	return &dashboardService{
		productRepo: productRepo,
		stockRepo:   stockRepo,
		ledgerRepo:  ledgerRepo,
	}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalProducts, err = s.productRepo.Count(); err != nil {
		return nil, err
	}

	totals, err := s.stockRepo.Totals()
	if err != nil {
		return nil, err
	}
	stats.TotalOnHand = totals.TotalOnHand
	stats.TotalReserved = totals.TotalReserved
	stats.TotalAvailable = totals.TotalOnHand - totals.TotalReserved
	stats.LowStockCount = totals.LowStockCount

	valuation, err := s.stockRepo.Valuation()
	if err != nil {
		return nil, err
	}
	stats.InventoryCost = valuation.TotalCost
	stats.InventoryValue = valuation.TotalSaleValue
	stats.EstimatedMargin = valuation.TotalSaleValue - valuation.TotalCost

	if stats.RealizedMargin, err = s.ledgerRepo.RealizedMargin(); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.MovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.ledgerRepo.MovementSeries(startDate, endDate)
}
