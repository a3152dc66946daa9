package handler

import (
	"mekarsari-pos/internal/model"
	"mekarsari-pos/internal/service"
	"mekarsari-pos/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// SalesHandler is the cashier surface: shifts, the menu, ringing orders,
// receipts, settlement and voids.
type SalesHandler struct {
	shiftService  service.ShiftService
	orderService  service.OrderService
	masterService service.MasterService
}

func NewSalesHandler(
	shiftService service.ShiftService,
	orderService service.OrderService,
	masterService service.MasterService,
) *SalesHandler {
	return &SalesHandler{
		shiftService:  shiftService,
		orderService:  orderService,
		masterService: masterService,
	}
}

type openShiftRequest struct {
	StartCash decimal.Decimal `json:"start_cash"`
}

type closeShiftRequest struct {
	ActualCash decimal.Decimal `json:"actual_cash"`
}

type settleRequest struct {
	PaymentMethod model.PaymentMethod `json:"payment_method"`
}

// Dashboard shows the cashier's current shift, or null when the drawer is
// closed
// GET /api/v1/sales/dashboard
func (h *SalesHandler) Dashboard(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	session, err := h.shiftService.ActiveSession(userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"active_session": session}})
}

// OpenShift starts the cashier's working period
// POST /api/v1/sales/shift/open
func (h *SalesHandler) OpenShift(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req openShiftRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}

	session, err := h.shiftService.OpenShift(userID, req.StartCash)
	if err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Shift opened",
		"data":    session,
	})
}

// CloseShift reconciles and closes the active shift
// POST /api/v1/sales/shift/close
func (h *SalesHandler) CloseShift(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req closeShiftRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}

	summary, err := h.shiftService.CloseShift(userID, req.ActualCash)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Shift closed",
		"data":    summary,
	})
}

// Menu lists sellable products for the order screen
// GET /api/v1/sales/menu?category=
func (h *SalesHandler) Menu(c *fiber.Ctx) error {
	menu, err := h.masterService.Menu(c.Query("category"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": menu})
}

// CreateOrder rings a sale
// POST /api/v1/sales/orders
func (h *SalesHandler) CreateOrder(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}

	result, err := h.orderService.CreateOrder(userID, &req)
	if err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Order created",
		"data":    result,
	})
}

// Receipt renders the printable receipt of an order
// GET /api/v1/sales/orders/:invoice_no/receipt
func (h *SalesHandler) Receipt(c *fiber.Ctx) error {
	receipt, err := h.orderService.GetReceipt(c.Params("invoice_no"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": receipt})
}

// SettleOrder confirms payment of a pending order
// POST /api/v1/sales/orders/:invoice_no/settle
func (h *SalesHandler) SettleOrder(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req settleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}

	order, err := h.orderService.SettlePendingOrder(userID, c.Params("invoice_no"), req.PaymentMethod)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Order settled",
		"data": fiber.Map{
			"invoice":        order.InvoiceNo,
			"payment_method": order.PaymentMethod,
			"total":          order.TotalAmount,
		},
	})
}

// VoidOrder cancels an order with compensating stock and shift entries
// POST /api/v1/sales/orders/:invoice_no/void
func (h *SalesHandler) VoidOrder(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	if err := h.orderService.VoidOrder(userID, c.Params("invoice_no")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Order voided"})
}
