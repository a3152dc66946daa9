package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCooking   OrderStatus = "cooking"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PayCash     PaymentMethod = "cash"
	PayQris     PaymentMethod = "qris"
	PayTransfer PaymentMethod = "transfer"
	PayPending  PaymentMethod = "pending"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayCash, PayQris, PayTransfer, PayPending:
		return true
	}
	return false
}

// Settled reports whether payment has been received. Pending orders have not
// yet been credited to any shift.
func (m PaymentMethod) Settled() bool {
	return m != PayPending && m != ""
}

// Order is one sale transaction. Cooking/completed statuses belong to the
// kitchen workflow; the transaction engine itself only moves orders between
// pending and cancelled.
type Order struct {
	BaseModel
	InvoiceNo string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_no"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Shift that the sale was rung under
	SessionID *uuid.UUID `gorm:"type:uuid;index" json:"session_id"`

	Status          OrderStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(20);default:'pending'" json:"payment_method"`
	CustomerName    string          `gorm:"type:varchar(100);default:'Pelanggan Umum'" json:"customer_name"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem snapshots price and per-unit COGS at the moment of sale. They are
// never recomputed from current product/ingredient state: historical reports
// must reflect values as they were when the sale occurred.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Product   Product   `json:"product" validate:"-"`
	Quantity  int       `gorm:"not null" json:"quantity"`

	PriceAtSale decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"price_at_sale"`
	// Per-unit figure; reports multiply by Quantity
	CogsAtSale decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"cogs_at_sale"`
}
