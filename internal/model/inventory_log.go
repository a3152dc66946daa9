package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ChangeType string

const (
	ChangePurchase   ChangeType = "purchase"
	ChangeProduction ChangeType = "production"
	ChangeWaste      ChangeType = "waste"
	ChangeAdjustment ChangeType = "adjustment"
)

// InventoryLog is the append-only audit trail of stock mutations. Exactly one
// row is written per mutation, with the same signed quantity that was applied
// to Ingredient.CurrentStock. Rows are never updated or deleted: reversals
// write new offsetting rows.
type InventoryLog struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	IngredientID uuid.UUID       `gorm:"type:uuid;not null;index" json:"ingredient_id"`
	UserID       uuid.UUID       `gorm:"type:uuid" json:"user_id"`
	ChangeType   ChangeType      `gorm:"type:varchar(20);not null" json:"change_type"`
	QuantityChange decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity_change"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (l *InventoryLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
