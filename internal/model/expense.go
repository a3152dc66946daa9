package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationalExpense records non-ingredient costs (rent, gas, wages) so the
// profit & loss report can subtract them from gross profit.
type OperationalExpense struct {
	BaseModel
	ExpenseName string          `gorm:"type:varchar(100);not null" json:"expense_name" validate:"required"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	ExpenseDate time.Time       `gorm:"type:date;not null;index" json:"expense_date"`
	Description string          `gorm:"type:text" json:"description"`
}
