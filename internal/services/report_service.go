package services

import (
	"aolua/internal/repos"
)

type ReportService struct {
	Orders *repos.OrderRepo
	Inv    *repos.InventoryRepo
}

func NewReportService(orders *repos.OrderRepo, inv *repos.InventoryRepo) *ReportService {
	return &ReportService{Orders: orders, Inv: inv}
}

// Summary is the admin dashboard payload: independent, uncoordinated read
// aggregations over the order and inventory tables.
type Summary struct {
	StatusCounts []repos.StatusCount  `json:"statusCounts"`
	RevenueByDay []repos.DayRevenue   `json:"revenueByDay"`
	TopProducts  []repos.ProductSales `json:"topProducts"`
	LowStock     []repos.StockRow     `json:"lowStock"`
}

func (s *ReportService) Summary(days, lowStockAt int) (Summary, error) {
	var sum Summary
	var err error
	if sum.StatusCounts, err = s.Orders.CountByStatus(); err != nil {
		return Summary{}, err
	}
	if sum.RevenueByDay, err = s.Orders.RevenueByDay(days); err != nil {
		return Summary{}, err
	}
	if sum.TopProducts, err = s.Orders.TopProducts(5); err != nil {
		return Summary{}, err
	}
	if sum.LowStock, err = s.Inv.LowStock(lowStockAt); err != nil {
		return Summary{}, err
	}
	return sum, nil
}
