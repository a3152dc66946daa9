package handler

import (
	"strconv"

	"mekarsari-pos/internal/service"
	"mekarsari-pos/pkg/apperr"
	"mekarsari-pos/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ProductionHandler is the kitchen/warehouse surface: stock levels, restock,
// stock opname and the daily cooking queue.
type ProductionHandler struct {
	inventoryService service.InventoryService
	orderService     service.OrderService
	masterService    service.MasterService
}

func NewProductionHandler(
	inventoryService service.InventoryService,
	orderService service.OrderService,
	masterService service.MasterService,
) *ProductionHandler {
	return &ProductionHandler{
		inventoryService: inventoryService,
		orderService:     orderService,
		masterService:    masterService,
	}
}

// Dashboard shows the production counters
// GET /api/v1/production/dashboard
func (h *ProductionHandler) Dashboard(c *fiber.Ctx) error {
	low, err := h.inventoryService.LowStockCount()
	if err != nil {
		return err
	}

	queue, err := h.orderService.ProductionQueue()
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"low_stock_items": low,
			"pending_tasks":   len(queue.Tasks),
		},
	})
}

// Stocks lists ingredient balances with their low/out status
// GET /api/v1/production/stocks?search=
func (h *ProductionHandler) Stocks(c *fiber.Ctx) error {
	stocks, err := h.inventoryService.ListStocks(c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stocks})
}

// IngredientOptions fills the restock/opname dropdowns
// GET /api/v1/production/ingredients/options
func (h *ProductionHandler) IngredientOptions(c *fiber.Ctx) error {
	options, err := h.inventoryService.ListIngredientOptions()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": options})
}

// Restock records a purchase and recalculates the weighted-average cost
// POST /api/v1/production/restock
func (h *ProductionHandler) Restock(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req service.RestockRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}
	if err := validator.Check(&req); err != nil {
		return err
	}

	result, err := h.inventoryService.Restock(userID, &req)
	if err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Restock recorded",
		"data":    result,
	})
}

// AdjustStock records a manual stock correction (opname)
// POST /api/v1/production/adjust
func (h *ProductionHandler) AdjustStock(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req service.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}
	if err := validator.Check(&req); err != nil {
		return err
	}

	result, err := h.inventoryService.AdjustStock(userID, &req)
	if err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Stock adjusted",
		"data":    result,
	})
}

// Queue returns today's production tasks grouped by product
// GET /api/v1/production/queue
func (h *ProductionHandler) Queue(c *fiber.Ctx) error {
	queue, err := h.orderService.ProductionQueue()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": queue})
}

// IngredientLogs lists recent ledger entries for one ingredient
// GET /api/v1/production/ingredients/:id/logs?limit=
func (h *ProductionHandler) IngredientLogs(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validationf("invalid ingredient ID")
	}

	logs, err := h.inventoryService.IngredientLogs(id, parseLimit(c, 50))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": logs})
}

func parseLimit(c *fiber.Ctx, fallback int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
