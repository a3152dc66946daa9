package service

import (
	"strings"

	"mekarsari-pos/internal/model"
	"mekarsari-pos/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// applyStockChange is the single path for every stock mutation: it moves the
// ingredient's materialized balance and appends exactly one InventoryLog row
// with the same signed quantity, inside the caller's transaction. No code may
// touch current_stock without going through here.
//
// The ingredient must have been read under a row lock in the same tx. The
// caller may have adjusted ing.AvgCost first (restock does); both fields are
// persisted together.
func applyStockChange(tx *gorm.DB, ing *model.Ingredient, qty decimal.Decimal, changeType model.ChangeType, actorID uuid.UUID) error {
	ing.CurrentStock = ing.CurrentStock.Add(qty)

	err := tx.Model(&model.Ingredient{}).
		Where("id = ?", ing.ID).
		Updates(map[string]interface{}{
			"current_stock": ing.CurrentStock,
			"avg_cost":      ing.AvgCost,
		}).Error
	if err != nil {
		return apperr.Persistencef(err, "failed to update stock of '%s'", ing.Name)
	}

	entry := model.InventoryLog{
		IngredientID:   ing.ID,
		UserID:         actorID,
		ChangeType:     changeType,
		QuantityChange: qty,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return apperr.Persistencef(err, "failed to write inventory log for '%s'", ing.Name)
	}
	return nil
}

// wasteWords flags a manual stock-out as spoilage rather than a plain
// correction. Mirrors the vocabulary the warehouse staff actually types.
var wasteWords = []string{"busuk", "rusak", "buang", "spoil", "damag", "waste", "expired", "dispos"}

// classifyAdjustment picks the log change type for a manual stock opname:
// negative changes whose reason mentions spoilage/damage/disposal are waste,
// everything else is a plain adjustment.
func classifyAdjustment(qty decimal.Decimal, reason string) model.ChangeType {
	if !qty.IsNegative() {
		return model.ChangeAdjustment
	}
	lower := strings.ToLower(reason)
	for _, w := range wasteWords {
		if strings.Contains(lower, w) {
			return model.ChangeWaste
		}
	}
	return model.ChangeAdjustment
}
