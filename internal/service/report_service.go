package service

import (
	"strings"
	"time"

	"mekarsari-pos/internal/model"
	"mekarsari-pos/internal/repository"
	"mekarsari-pos/pkg/apperr"

	"github.com/shopspring/decimal"
)

type StockReportRow struct {
	Name       string          `json:"name"`
	Stock      decimal.Decimal `json:"stock"`
	Unit       string          `json:"unit"`
	AvgCost    decimal.Decimal `json:"avg_cost"`
	AssetValue decimal.Decimal `json:"asset_value"`
}

type StockReport struct {
	Rows            []StockReportRow `json:"rows"`
	TotalAssetValue decimal.Decimal  `json:"total_asset_value"`
}

type SalesReport struct {
	Days         []repository.DailySalesRow `json:"days"`
	GrandRevenue float64                    `json:"grand_revenue"`
	GrandTrx     int64                      `json:"grand_transactions"`
}

type ProfitLossReport struct {
	Revenue     float64 `json:"revenue"`
	COGS        float64 `json:"cogs"`
	GrossProfit float64 `json:"gross_profit"`
	Expenses    float64 `json:"operational_expenses"`
	NetProfit   float64 `json:"net_profit"`
}

type AddExpenseRequest struct {
	ExpenseName string          `json:"expense_name"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate *time.Time      `json:"expense_date"`
	Description string          `json:"description"`
}

// DashboardStats feeds the admin landing page counters.
type DashboardStats struct {
	TodayRevenue float64 `json:"today_revenue"`
	TodayTrx     int64   `json:"today_transactions"`
	LowStockItem int64   `json:"low_stock_items"`
}

type ReportService interface {
	StockReport() (*StockReport, error)
	SalesReport(start, end *time.Time) (*SalesReport, error)
	ProfitLoss(start, end *time.Time) (*ProfitLossReport, error)
	AddExpense(actorID string, req *AddExpenseRequest) (*model.OperationalExpense, error)
	ListExpenses(start, end *time.Time) ([]model.OperationalExpense, error)
	Dashboard() (*DashboardStats, error)
}

type reportService struct {
	ingredientRepo repository.IngredientRepository
	orderRepo      repository.OrderRepository
	expenseRepo    repository.ExpenseRepository
}

func NewReportService(
	ingRepo repository.IngredientRepository,
	orderRepo repository.OrderRepository,
	expenseRepo repository.ExpenseRepository,
) ReportService {
	return &reportService{
		ingredientRepo: ingRepo,
		orderRepo:      orderRepo,
		expenseRepo:    expenseRepo,
	}
}

// StockReport values the warehouse at weighted-average cost.
func (s *reportService) StockReport() (*StockReport, error) {
	ingredients, err := s.ingredientRepo.FindAll("")
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to load ingredients")
	}

	report := &StockReport{
		Rows:            make([]StockReportRow, 0, len(ingredients)),
		TotalAssetValue: decimal.Zero,
	}
	for _, ing := range ingredients {
		value := ing.CurrentStock.Mul(ing.AvgCost).Round(2)
		report.Rows = append(report.Rows, StockReportRow{
			Name:       ing.Name,
			Stock:      ing.CurrentStock,
			Unit:       ing.Unit,
			AvgCost:    ing.AvgCost,
			AssetValue: value,
		})
		report.TotalAssetValue = report.TotalAssetValue.Add(value)
	}
	return report, nil
}

func (s *reportService) SalesReport(start, end *time.Time) (*SalesReport, error) {
	days, err := s.orderRepo.GetDailySales(start, end)
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to build sales report")
	}

	report := &SalesReport{Days: days}
	for _, day := range days {
		report.GrandRevenue += day.TotalRevenue
		report.GrandTrx += day.TotalTrx
	}
	return report, nil
}

// ProfitLoss works off the snapshots captured at sale time, so later price or
// cost changes never rewrite history.
func (s *reportService) ProfitLoss(start, end *time.Time) (*ProfitLossReport, error) {
	revenue, cogs, err := s.orderRepo.GetRevenueAndCOGS(start, end)
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to aggregate revenue")
	}

	expenses, err := s.expenseRepo.SumByDateRange(start, end)
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to aggregate expenses")
	}

	gross := revenue - cogs
	return &ProfitLossReport{
		Revenue:     revenue,
		COGS:        cogs,
		GrossProfit: gross,
		Expenses:    expenses,
		NetProfit:   gross - expenses,
	}, nil
}

func (s *reportService) AddExpense(actorID string, req *AddExpenseRequest) (*model.OperationalExpense, error) {
	name := strings.TrimSpace(req.ExpenseName)
	if name == "" {
		return nil, apperr.Validationf("expense name is required")
	}
	if !req.Amount.IsPositive() {
		return nil, apperr.Validationf("expense amount must be greater than zero")
	}

	date := time.Now()
	if req.ExpenseDate != nil {
		date = *req.ExpenseDate
	}

	expense := &model.OperationalExpense{
		ExpenseName: name,
		Amount:      req.Amount,
		ExpenseDate: date,
		Description: req.Description,
	}
	expense.CreatedBy = actorID
	expense.UpdatedBy = actorID

	if err := s.expenseRepo.Create(expense); err != nil {
		return nil, apperr.Persistencef(err, "failed to record expense")
	}
	return expense, nil
}

func (s *reportService) ListExpenses(start, end *time.Time) ([]model.OperationalExpense, error) {
	expenses, err := s.expenseRepo.FindByDateRange(start, end)
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to list expenses")
	}
	return expenses, nil
}

func (s *reportService) Dashboard() (*DashboardStats, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24 * time.Hour)

	days, err := s.orderRepo.GetDailySales(&start, &end)
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to load today's sales")
	}

	stats := &DashboardStats{}
	for _, day := range days {
		stats.TodayRevenue += day.TotalRevenue
		stats.TodayTrx += day.TotalTrx
	}

	low, err := s.ingredientRepo.CountLowStock(lowStockThreshold)
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to count low stock")
	}
	stats.LowStockItem = low
	return stats, nil
}
