package handler

import (
	"time"

	"mekarsari-pos/internal/service"
	"mekarsari-pos/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler serves the admin's read models: stock valuation, sales
// recaps, profit & loss and operational expenses. The hard order deletion
// also lives here since it is an admin-only correction tool.
type ReportHandler struct {
	reportService service.ReportService
	orderService  service.OrderService
}

func NewReportHandler(reportService service.ReportService, orderService service.OrderService) *ReportHandler {
	return &ReportHandler{reportService: reportService, orderService: orderService}
}

// dateRange parses optional ?start=YYYY-MM-DD&end=YYYY-MM-DD query params.
// The end date is inclusive: it covers up to end-of-day.
func dateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	startRaw, endRaw := c.Query("start"), c.Query("end")
	if startRaw == "" || endRaw == "" {
		return nil, nil, nil
	}

	start, err := time.Parse("2006-01-02", startRaw)
	if err != nil {
		return nil, nil, apperr.Validationf("invalid start date, use YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endRaw)
	if err != nil {
		return nil, nil, apperr.Validationf("invalid end date, use YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, nil, apperr.Validationf("end date is before start date")
	}

	endOfDay := end.Add(24*time.Hour - time.Nanosecond)
	return &start, &endOfDay, nil
}

// Dashboard
// GET /api/v1/admin/dashboard
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.reportService.Dashboard()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// StockReport values the warehouse at weighted-average cost
// GET /api/v1/admin/reports/stock
func (h *ReportHandler) StockReport(c *fiber.Ctx) error {
	report, err := h.reportService.StockReport()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// SalesReport
// GET /api/v1/admin/reports/sales?start=&end=
func (h *ReportHandler) SalesReport(c *fiber.Ctx) error {
	start, end, err := dateRange(c)
	if err != nil {
		return err
	}

	report, err := h.reportService.SalesReport(start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// ProfitLoss
// GET /api/v1/admin/reports/profit-loss?start=&end=
func (h *ReportHandler) ProfitLoss(c *fiber.Ctx) error {
	start, end, err := dateRange(c)
	if err != nil {
		return err
	}

	report, err := h.reportService.ProfitLoss(start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// AddExpense
// POST /api/v1/admin/expenses
func (h *ReportHandler) AddExpense(c *fiber.Ctx) error {
	var req service.AddExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}

	expense, err := h.reportService.AddExpense(actorString(c), &req)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"message": "Expense recorded", "data": expense})
}

// ListExpenses
// GET /api/v1/admin/expenses?start=&end=
func (h *ReportHandler) ListExpenses(c *fiber.Ctx) error {
	start, end, err := dateRange(c)
	if err != nil {
		return err
	}

	expenses, err := h.reportService.ListExpenses(start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": expenses})
}

// DeleteOrder permanently removes an order and its items
// DELETE /api/v1/admin/orders/:invoice_no
func (h *ReportHandler) DeleteOrder(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	if err := h.orderService.DeleteOrderPermanently(userID, c.Params("invoice_no")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Order permanently deleted"})
}
