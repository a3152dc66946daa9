package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable menu item. A product without recipe lines is a
// pass-through/trade item: sellable, zero COGS, no stock effect.
type Product struct {
	BaseModel
	Name     string          `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Price    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"price"`
	Category string          `gorm:"type:varchar(50)" json:"category"`
	IsActive bool            `gorm:"default:true" json:"is_active"`

	// Relasi
	Recipes []Recipe `gorm:"foreignKey:ProductID" json:"recipes,omitempty"`
}

// Recipe is one ingredient line of a product's bill of materials:
// QuantityNeeded of the ingredient's base unit per one unit of product sold.
type Recipe struct {
	BaseModel
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	IngredientID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"ingredient_id" validate:"uuid_required"`
	Ingredient     Ingredient      `json:"ingredient" validate:"-"`
	QuantityNeeded decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity_needed"`
}
