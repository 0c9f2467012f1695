package service

import (
	"context"
	"time"

	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	repos *repository.Repositories
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(repos *repository.Repositories) *DashboardService {
	return &DashboardService{repos: repos}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	ActiveProducts         int64             `json:"active_products"`
	LowStockCount          int64             `json:"low_stock_count"`
	UnitsInStock           int64             `json:"units_in_stock"`
	UnitsWithAgents        int64             `json:"units_with_agents"`
	StockValue             decimal.Decimal   `json:"stock_value"`
	TodaySales             decimal.Decimal   `json:"today_sales"`
	TodayTransactions      int64             `json:"today_transactions"`
	OutstandingAgentDebt   decimal.Decimal   `json:"outstanding_agent_debt"`
	ActiveAgents           int64             `json:"active_agents"`
	PendingReconciliations int64             `json:"pending_reconciliations"`
	DailySalesData         []DailySalesPoint `json:"daily_sales_data"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date         string          `json:"date"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int64           `json:"transactions"`
}

// GetDashboardStats returns dashboard statistics. All reads run without locks
// and may be slightly stale under concurrent writes.
func (s *DashboardService) GetDashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}

	inventory, err := s.repos.Products.Summary(ctx)
	if err != nil {
		return nil, err
	}
	stats.ActiveProducts = inventory.ActiveProducts
	stats.LowStockCount = inventory.LowStock
	stats.UnitsInStock = inventory.UnitsInStock
	stats.UnitsWithAgents = inventory.UnitsInField
	stats.StockValue = inventory.StockValue

	if stats.OutstandingAgentDebt, err = s.repos.Ledger.SumOutstandingAll(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveAgents, err = s.repos.Agents.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.PendingReconciliations, err = s.repos.Reconciliations.CountByStatus(ctx, enum.ReconciliationCompleted); err != nil {
		return nil, err
	}

	// Sales for the last 7 days, today last
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	stats.DailySalesData = make([]DailySalesPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		summary, err := s.repos.Transactions.SalesSummary(ctx, day, day.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		stats.DailySalesData = append(stats.DailySalesData, DailySalesPoint{
			Date:         day.Format("Jan 02"),
			Revenue:      summary.TotalSales,
			Transactions: summary.TransactionCount,
		})
	}

	last := stats.DailySalesData[len(stats.DailySalesData)-1]
	stats.TodaySales = last.Revenue
	stats.TodayTransactions = last.Transactions

	return stats, nil
}
