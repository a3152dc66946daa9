package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"mekarsari-pos/internal/model"
	"mekarsari-pos/internal/repository"
	"mekarsari-pos/internal/ws"
	"mekarsari-pos/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"qty"`
}

type CreateOrderRequest struct {
	Items         []CartLine          `json:"items"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	CustomerName  string              `json:"customer_name"`
}

type CreateOrderResult struct {
	InvoiceNo   string          `json:"invoice"`
	TotalAmount decimal.Decimal `json:"total"`
	SessionID   uuid.UUID       `json:"session_id"`
	// Non-fatal informational events, e.g. products sold without a recipe
	Notes []string `json:"notes,omitempty"`
}

type ReceiptItem struct {
	Product  string          `json:"product"`
	Qty      int             `json:"qty"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type Receipt struct {
	StoreName string              `json:"store_name"`
	InvoiceNo string              `json:"invoice"`
	Date      string              `json:"date"`
	Cashier   string              `json:"cashier"`
	Customer  string              `json:"customer"`
	Items     []ReceiptItem       `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	Payment   model.PaymentMethod `json:"payment"`
	Status    model.OrderStatus   `json:"status"`
}

// QueueTask aggregates how much of one product the kitchen still has to make
// today, and which invoices asked for it.
type QueueTask struct {
	TotalQty int      `json:"total_qty"`
	Orders   []string `json:"orders"`
}

type QueueReport struct {
	Date  string               `json:"date"`
	Tasks map[string]QueueTask `json:"tasks"`
}

type OrderService interface {
	CreateOrder(cashierID uuid.UUID, req *CreateOrderRequest) (*CreateOrderResult, error)
	GetReceipt(invoiceNo string) (*Receipt, error)
	SettlePendingOrder(actorID uuid.UUID, invoiceNo string, method model.PaymentMethod) (*model.Order, error)
	VoidOrder(actorID uuid.UUID, invoiceNo string) error
	DeleteOrderPermanently(actorID uuid.UUID, invoiceNo string) error
	ProductionQueue() (*QueueReport, error)
}

type orderService struct {
	db             *gorm.DB
	productRepo    repository.ProductRepository
	orderRepo      repository.OrderRepository
	sessionRepo    repository.SessionRepository
	ingredientRepo repository.IngredientRepository
	wsHub          *ws.Hub
}

func NewOrderService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	sessionRepo repository.SessionRepository,
	ingredientRepo repository.IngredientRepository,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		db:             db,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		sessionRepo:    sessionRepo,
		ingredientRepo: ingredientRepo,
		wsHub:          hub,
	}
}

// newInvoiceNo derives an invoice number from the clock plus a random suffix
// so concurrent orders inside the same second cannot collide.
func newInvoiceNo(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102-150405"), suffix)
}

// CreateOrder is the core sale transaction: validate the shift, resolve each
// product's recipe, check and deduct ingredient stock, snapshot price and
// per-unit COGS, update the order total and credit the shift — all inside one
// transaction. Any failure rolls back every effect, including deductions for
// earlier cart lines.
func (s *orderService) CreateOrder(cashierID uuid.UUID, req *CreateOrderRequest) (*CreateOrderResult, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validationf("cart is empty")
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, apperr.Validationf("item quantity must be greater than zero")
		}
	}

	method := req.PaymentMethod
	if method == "" {
		method = model.PayCash
	}
	if !method.Valid() {
		return nil, apperr.Validationf("unknown payment method '%s'", method)
	}

	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		customer = "Pelanggan Umum"
	}

	session, err := s.sessionRepo.FindOpenByUser(cashierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NoOpenShift()
		}
		return nil, apperr.Persistencef(err, "failed to check active shift")
	}

	var result *CreateOrderResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		order := &model.Order{
			InvoiceNo:       newInvoiceNo(now),
			UserID:          cashierID,
			SessionID:       &session.ID,
			Status:          model.OrderPending,
			TotalAmount:     decimal.Zero,
			PaymentMethod:   method,
			CustomerName:    customer,
			TransactionDate: now,
		}
		order.CreatedBy = cashierID.String()
		order.UpdatedBy = cashierID.String()

		if err := tx.Create(order).Error; err != nil {
			return apperr.Persistencef(err, "failed to create order")
		}

		total := decimal.Zero
		var notes []string

		for _, line := range req.Items {
			product, err := s.productRepo.FindByID(line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFoundf("product %s not found", line.ProductID)
				}
				return apperr.Persistencef(err, "failed to load product")
			}

			recipes, err := s.productRepo.FindRecipesByProduct(product.ID)
			if err != nil {
				return apperr.Persistencef(err, "failed to load recipe of '%s'", product.Name)
			}
			if len(recipes) == 0 {
				// Pass-through item (e.g. kerupuk titipan): zero COGS,
				// no stock effect. Surfaced, not swallowed.
				notes = append(notes, fmt.Sprintf("product '%s' has no recipe; sold with zero COGS", product.Name))
				log.Printf("order %s: product '%s' has no recipe", order.InvoiceNo, product.Name)
			}

			qty := decimal.NewFromInt(int64(line.Quantity))
			unitCOGS := decimal.Zero

			for _, recipe := range recipes {
				ing, err := s.ingredientRepo.LockByID(tx, recipe.IngredientID)
				if err != nil {
					return apperr.Persistencef(err, "failed to load ingredient of '%s'", product.Name)
				}

				required := recipe.QuantityNeeded.Mul(qty)
				if ing.CurrentStock.LessThan(required) {
					return apperr.InsufficientStock(ing.Name, required, ing.CurrentStock)
				}

				if err := applyStockChange(tx, ing, required.Neg(), model.ChangeProduction, cashierID); err != nil {
					return err
				}

				// COGS is a per-unit figure: avg cost at time of sale
				// times the recipe quantity, NOT scaled by line quantity.
				unitCOGS = unitCOGS.Add(ing.AvgCost.Mul(recipe.QuantityNeeded))
			}

			item := model.OrderItem{
				OrderID:     order.ID,
				ProductID:   product.ID,
				Quantity:    line.Quantity,
				PriceAtSale: product.Price,
				CogsAtSale:  unitCOGS,
			}
			item.CreatedBy = cashierID.String()
			if err := tx.Create(&item).Error; err != nil {
				return apperr.Persistencef(err, "failed to save order item")
			}

			total = total.Add(product.Price.Mul(qty))
		}

		err := tx.Model(&model.Order{}).
			Where("id = ?", order.ID).
			Update("total_amount", total).Error
		if err != nil {
			return apperr.Persistencef(err, "failed to finalize order total")
		}

		if method.Settled() {
			if err := recordSettlement(tx, s.sessionRepo, session.ID, total); err != nil {
				return err
			}
		}

		result = &CreateOrderResult{
			InvoiceNo:   order.InvoiceNo,
			TotalAmount: total,
			SessionID:   session.ID,
			Notes:       notes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastOrderEvent("order_created", result.InvoiceNo, result.TotalAmount)
	return result, nil
}

func (s *orderService) GetReceipt(invoiceNo string) (*Receipt, error) {
	order, err := s.orderRepo.FindByInvoice(invoiceNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("order '%s' not found", invoiceNo)
		}
		return nil, apperr.Persistencef(err, "failed to load order")
	}

	cashier := ""
	if order.User != nil {
		cashier = order.User.Username
	}

	items := make([]ReceiptItem, 0, len(order.Items))
	for _, item := range order.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		items = append(items, ReceiptItem{
			Product:  item.Product.Name,
			Qty:      item.Quantity,
			Price:    item.PriceAtSale,
			Subtotal: item.PriceAtSale.Mul(qty),
		})
	}

	return &Receipt{
		StoreName: "Kerupuk Mekar Sari",
		InvoiceNo: order.InvoiceNo,
		Date:      order.TransactionDate.Format("2006-01-02 15:04"),
		Cashier:   cashier,
		Customer:  order.CustomerName,
		Items:     items,
		Total:     order.TotalAmount,
		Payment:   order.PaymentMethod,
		Status:    order.Status,
	}, nil
}

// SettlePendingOrder confirms payment of an order rung as 'pending' and
// credits its total to the owning shift. Settling twice is a state error.
func (s *orderService) SettlePendingOrder(actorID uuid.UUID, invoiceNo string, method model.PaymentMethod) (*model.Order, error) {
	if !method.Settled() || !method.Valid() {
		return nil, apperr.Validationf("settlement requires a concrete payment method (cash, qris, transfer)")
	}

	var settled *model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.LockByInvoice(tx, invoiceNo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("order '%s' not found", invoiceNo)
			}
			return apperr.Persistencef(err, "failed to load order")
		}

		if order.Status == model.OrderCancelled {
			return apperr.Statef("order '%s' is cancelled", invoiceNo)
		}
		if order.PaymentMethod.Settled() {
			return apperr.Statef("order '%s' is already settled via %s", invoiceNo, order.PaymentMethod)
		}

		order.PaymentMethod = method
		order.UpdatedBy = actorID.String()
		if err := tx.Save(order).Error; err != nil {
			return apperr.Persistencef(err, "failed to settle order")
		}

		if order.SessionID != nil {
			if err := recordSettlement(tx, s.sessionRepo, *order.SessionID, order.TotalAmount); err != nil {
				return err
			}
		}

		settled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

// VoidOrder cancels a sale with compensating entries: the shift settlement
// is reversed (if any) and ingredient stock is restored through new
// offsetting log rows. Nothing is deleted, the audit trail stays intact.
func (s *orderService) VoidOrder(actorID uuid.UUID, invoiceNo string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.LockByInvoice(tx, invoiceNo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("order '%s' not found", invoiceNo)
			}
			return apperr.Persistencef(err, "failed to load order")
		}

		if order.Status == model.OrderCancelled {
			return apperr.Statef("order '%s' is already cancelled", invoiceNo)
		}

		order.Status = model.OrderCancelled
		order.UpdatedBy = actorID.String()
		if err := tx.Save(order).Error; err != nil {
			return apperr.Persistencef(err, "failed to cancel order")
		}

		if order.PaymentMethod.Settled() && order.SessionID != nil {
			if err := recordSettlement(tx, s.sessionRepo, *order.SessionID, order.TotalAmount.Neg()); err != nil {
				return err
			}
		}

		return s.restoreStockForOrder(tx, order.ID, actorID)
	})
	if err != nil {
		return err
	}

	s.broadcastOrderEvent("order_voided", invoiceNo, decimal.Zero)
	return nil
}

// DeleteOrderPermanently removes an order and its items from the ledger.
// This breaks the sales audit trail and is gated to admins at the route.
// If the order was already voided, stock was restored then and MUST NOT be
// restored again here.
func (s *orderService) DeleteOrderPermanently(actorID uuid.UUID, invoiceNo string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.LockByInvoice(tx, invoiceNo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("order '%s' not found", invoiceNo)
			}
			return apperr.Persistencef(err, "failed to load order")
		}

		if order.Status != model.OrderCancelled {
			if order.PaymentMethod.Settled() && order.SessionID != nil {
				if err := recordSettlement(tx, s.sessionRepo, *order.SessionID, order.TotalAmount.Neg()); err != nil {
					return err
				}
			}
			if err := s.restoreStockForOrder(tx, order.ID, actorID); err != nil {
				return err
			}
		}

		// Hard delete. Inventory logs are kept: they are the only remaining
		// trace of what this order did to stock.
		if err := tx.Unscoped().Where("order_id = ?", order.ID).Delete(&model.OrderItem{}).Error; err != nil {
			return apperr.Persistencef(err, "failed to delete order items")
		}
		if err := tx.Unscoped().Delete(order).Error; err != nil {
			return apperr.Persistencef(err, "failed to delete order")
		}
		return nil
	})
}

// restoreStockForOrder writes compensating 'adjustment' entries that give
// back each item's recipe quantities.
func (s *orderService) restoreStockForOrder(tx *gorm.DB, orderID uuid.UUID, actorID uuid.UUID) error {
	var items []model.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return apperr.Persistencef(err, "failed to load order items")
	}

	for _, item := range items {
		recipes, err := s.productRepo.FindRecipesByProduct(item.ProductID)
		if err != nil {
			return apperr.Persistencef(err, "failed to load recipe for stock restore")
		}
		qty := decimal.NewFromInt(int64(item.Quantity))

		for _, recipe := range recipes {
			ing, err := s.ingredientRepo.LockByID(tx, recipe.IngredientID)
			if err != nil {
				return apperr.Persistencef(err, "failed to load ingredient for stock restore")
			}
			restore := recipe.QuantityNeeded.Mul(qty)
			if err := applyStockChange(tx, ing, restore, model.ChangeAdjustment, actorID); err != nil {
				return err
			}
		}
	}
	return nil
}

// ProductionQueue groups today's live orders per product so the kitchen
// knows what to cook. Cancelled orders drop off the queue.
func (s *orderService) ProductionQueue() (*QueueReport, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	orders, err := s.orderRepo.FindSince(startOfDay)
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to load today's orders")
	}

	tasks := make(map[string]QueueTask)
	for _, order := range orders {
		if order.Status == model.OrderCancelled {
			continue
		}
		for _, item := range order.Items {
			task := tasks[item.Product.Name]
			task.TotalQty += item.Quantity
			task.Orders = append(task.Orders, order.InvoiceNo)
			tasks[item.Product.Name] = task
		}
	}

	return &QueueReport{
		Date:  now.Format("2006-01-02"),
		Tasks: tasks,
	}, nil
}

func (s *orderService) broadcastOrderEvent(action, invoiceNo string, total decimal.Decimal) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":    "order_event",
			"action":  action,
			"invoice": invoiceNo,
			"total":   total,
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
