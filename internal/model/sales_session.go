package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesSession is a cashier's shift: the working period between opening the
// cash drawer and reconciling it. At most one session per user may be open
// (EndTime IS NULL) at a time.
type SalesSession struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `gorm:"index" json:"end_time"`

	// Modal awal laci kasir
	StartCash decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"start_cash"`

	// Physical cash counted at close, entered manually
	EndCashActual *decimal.Decimal `gorm:"type:decimal(15,2)" json:"end_cash_actual"`

	// System-computed running sales total, maintained by order settlements
	TotalSystem decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_system"`

	// Relasi
	Orders []Order `gorm:"foreignKey:SessionID" json:"orders,omitempty"`
}

func (s *SalesSession) IsOpen() bool {
	return s.EndTime == nil
}
