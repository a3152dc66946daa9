package model

import (
	"github.com/shopspring/decimal"
)

// Ingredient is raw material master data. Stock and cost always live in the
// base unit (Unit); PurchaseUnit/ConversionRate only describe how the item is
// bought (e.g. 1 Karung = 25000 gr).
type Ingredient struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`

	// Satuan dasar, dipakai di resep & stok ('gr', 'ml', 'pcs')
	Unit string `gorm:"type:varchar(20);not null" json:"unit" validate:"required"`

	// Satuan beli saat restock ('Karung', 'Botol', 'Karton')
	PurchaseUnit   string          `gorm:"type:varchar(20);default:'pcs'" json:"purchase_unit"`
	ConversionRate decimal.Decimal `gorm:"type:decimal(10,2);default:1" json:"conversion_rate"`

	// Materialized running balance, in base unit. current_stock >= 0 is
	// guarded by the order engine, not by the schema: manual adjustments
	// may still drive it negative.
	CurrentStock decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"current_stock"`

	// Weighted-average cost per base unit
	AvgCost decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"avg_cost"`

	// Relasi
	Logs []InventoryLog `gorm:"foreignKey:IngredientID" json:"logs,omitempty"`
}
