package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"mekarsari-pos/internal/model"
	"mekarsari-pos/internal/repository"
	"mekarsari-pos/internal/ws"
	"mekarsari-pos/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// lowStockThreshold marks an ingredient as running out on the production
// dashboard (in base units).
var lowStockThreshold = decimal.NewFromInt(5)

type RestockRequest struct {
	IngredientID uuid.UUID       `json:"ingredient_id" validate:"uuid_required"`
	Quantity     decimal.Decimal `json:"qty"`   // in base units
	UnitPrice    decimal.Decimal `json:"price"` // per base unit
}

type RestockResult struct {
	Item       string          `json:"item"`
	AddedQty   decimal.Decimal `json:"added_qty"`
	TotalStock decimal.Decimal `json:"total_stock"`
	NewAvgCost decimal.Decimal `json:"new_avg_cost"`
}

type AdjustStockRequest struct {
	IngredientID uuid.UUID       `json:"ingredient_id" validate:"uuid_required"`
	QtyChange    decimal.Decimal `json:"qty_change"`
	Reason       string          `json:"reason"`
}

type AdjustStockResult struct {
	Item         string           `json:"item"`
	CurrentStock decimal.Decimal  `json:"current_stock"`
	ChangeType   model.ChangeType `json:"change_type"`
}

type StockStatus struct {
	ID      uuid.UUID       `json:"id"`
	Name    string          `json:"name"`
	Stock   decimal.Decimal `json:"stock"`
	Unit    string          `json:"unit"`
	AvgCost decimal.Decimal `json:"avg_cost"`
	Status  string          `json:"status"` // ok | low | out
}

type IngredientOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Unit string    `json:"unit"`
}

type InventoryService interface {
	Restock(actorID uuid.UUID, req *RestockRequest) (*RestockResult, error)
	AdjustStock(actorID uuid.UUID, req *AdjustStockRequest) (*AdjustStockResult, error)
	ListStocks(search string) ([]StockStatus, error)
	ListIngredientOptions() ([]IngredientOption, error)
	LowStockCount() (int64, error)
	IngredientLogs(id uuid.UUID, limit int) ([]model.InventoryLog, error)
}

type inventoryService struct {
	ingredientRepo repository.IngredientRepository
	db             *gorm.DB
	wsHub          *ws.Hub
}

func NewInventoryService(ingRepo repository.IngredientRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		ingredientRepo: ingRepo,
		db:             db,
		wsHub:          hub,
	}
}

// Restock records a purchase and folds it into the ingredient's
// weighted-average cost:
//
//	new_avg = (old_stock*old_avg + qty*price) / (old_stock + qty)
//
// falling back to the purchase price when the resulting stock is zero or
// negative (an earlier manual adjustment may have driven it below zero).
func (s *inventoryService) Restock(actorID uuid.UUID, req *RestockRequest) (*RestockResult, error) {
	if !req.Quantity.IsPositive() {
		return nil, apperr.Validationf("restock quantity must be greater than zero")
	}
	if req.UnitPrice.IsNegative() {
		return nil, apperr.Validationf("unit price cannot be negative")
	}

	var result *RestockResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ing, err := s.ingredientRepo.LockByID(tx, req.IngredientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("ingredient not found")
			}
			return apperr.Persistencef(err, "failed to load ingredient")
		}

		oldValue := ing.CurrentStock.Mul(ing.AvgCost)
		newValue := req.Quantity.Mul(req.UnitPrice)
		totalStock := ing.CurrentStock.Add(req.Quantity)

		if totalStock.IsPositive() {
			ing.AvgCost = oldValue.Add(newValue).Div(totalStock).Round(2)
		} else {
			ing.AvgCost = req.UnitPrice
		}

		if err := applyStockChange(tx, ing, req.Quantity, model.ChangePurchase, actorID); err != nil {
			return err
		}

		result = &RestockResult{
			Item:       ing.Name,
			AddedQty:   req.Quantity,
			TotalStock: ing.CurrentStock,
			NewAvgCost: ing.AvgCost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStockUpdate("restock", result.Item, result.TotalStock)
	return result, nil
}

// AdjustStock is the stock-opname path: an explicit manual correction that,
// unlike sales, is allowed to drive the balance negative.
func (s *inventoryService) AdjustStock(actorID uuid.UUID, req *AdjustStockRequest) (*AdjustStockResult, error) {
	if req.QtyChange.IsZero() {
		return nil, apperr.Validationf("qty_change cannot be zero")
	}

	var result *AdjustStockResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ing, err := s.ingredientRepo.LockByID(tx, req.IngredientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("ingredient not found")
			}
			return apperr.Persistencef(err, "failed to load ingredient")
		}

		changeType := classifyAdjustment(req.QtyChange, req.Reason)
		if err := applyStockChange(tx, ing, req.QtyChange, changeType, actorID); err != nil {
			return err
		}

		result = &AdjustStockResult{
			Item:         ing.Name,
			CurrentStock: ing.CurrentStock,
			ChangeType:   changeType,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStockUpdate("adjustment", result.Item, result.CurrentStock)
	return result, nil
}

func (s *inventoryService) ListStocks(search string) ([]StockStatus, error) {
	ingredients, err := s.ingredientRepo.FindAll(search)
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to list stocks")
	}

	output := make([]StockStatus, 0, len(ingredients))
	for _, item := range ingredients {
		status := "ok"
		if !item.CurrentStock.IsPositive() {
			status = "out"
		} else if item.CurrentStock.LessThan(lowStockThreshold) {
			status = "low"
		}
		output = append(output, StockStatus{
			ID:      item.ID,
			Name:    item.Name,
			Stock:   item.CurrentStock,
			Unit:    item.Unit,
			AvgCost: item.AvgCost,
			Status:  status,
		})
	}
	return output, nil
}

// ListIngredientOptions is the lightweight list that fills dropdowns on the
// restock/opname forms.
func (s *inventoryService) ListIngredientOptions() ([]IngredientOption, error) {
	ingredients, err := s.ingredientRepo.FindAll("")
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to list ingredients")
	}

	options := make([]IngredientOption, 0, len(ingredients))
	for _, item := range ingredients {
		options = append(options, IngredientOption{ID: item.ID, Name: item.Name, Unit: item.Unit})
	}
	return options, nil
}

func (s *inventoryService) LowStockCount() (int64, error) {
	return s.ingredientRepo.CountLowStock(lowStockThreshold)
}

// IngredientLogs exposes the tail of an ingredient's ledger for audit views.
func (s *inventoryService) IngredientLogs(id uuid.UUID, limit int) ([]model.InventoryLog, error) {
	if _, err := s.ingredientRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("ingredient not found")
		}
		return nil, apperr.Persistencef(err, "failed to load ingredient")
	}
	logs, err := s.ingredientRepo.FindLogsByIngredient(id, limit)
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to load inventory logs")
	}
	return logs, nil
}

func (s *inventoryService) broadcastStockUpdate(action, item string, stock decimal.Decimal) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":    "stock_update",
			"action":  action,
			"item":    item,
			"stock":   stock,
			"message": fmt.Sprintf("stock of '%s' is now %s", item, stock.String()),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
