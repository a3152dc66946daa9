package repository

import (
	"time"

	"mekarsari-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	FindByInvoice(invoiceNo string) (*model.Order, error)
	LockByInvoice(tx *gorm.DB, invoiceNo string) (*model.Order, error)
	FindItems(orderID uuid.UUID) ([]model.OrderItem, error)
	FindSince(since time.Time) ([]model.Order, error)

	// Reporting aggregations (read-only projections of the ledger store)
	GetDailySales(start, end *time.Time) ([]DailySalesRow, error)
	GetRevenueAndCOGS(start, end *time.Time) (revenue, cogs float64, err error)
}

// DailySalesRow is one line of the daily sales recap.
type DailySalesRow struct {
	Date         string  `json:"date"`
	TotalTrx     int64   `json:"total_transactions"`
	TotalRevenue float64 `json:"revenue"`
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) FindByInvoice(invoiceNo string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Items").Preload("Items.Product").Preload("User").
		First(&order, "invoice_no = ?", invoiceNo).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) LockByInvoice(tx *gorm.DB, invoiceNo string) (*model.Order, error) {
	var order model.Order
	if err := lockForUpdate(tx).First(&order, "invoice_no = ?", invoiceNo).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindItems(orderID uuid.UUID) ([]model.OrderItem, error) {
	var items []model.OrderItem
	if err := r.db.Preload("Product").
		Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepo) FindSince(since time.Time) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.Preload("Items").Preload("Items.Product").
		Where("transaction_date >= ?", since).
		Order("transaction_date").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetDailySales aggregates non-cancelled orders per day. Voided orders stay
// in the table for audit but never count as revenue.
func (r *orderRepo) GetDailySales(start, end *time.Time) ([]DailySalesRow, error) {
	query := r.db.Model(&model.Order{}).
		Select(`DATE(transaction_date) as date,
			COUNT(id) as total_trx,
			COALESCE(SUM(total_amount), 0) as total_revenue`).
		Where("status != ?", model.OrderCancelled)

	if start != nil && end != nil {
		query = query.Where("transaction_date BETWEEN ? AND ?", *start, *end)
	}

	rows, err := query.Group("DATE(transaction_date)").Order("date ASC").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DailySalesRow
	for rows.Next() {
		var row DailySalesRow
		if err := rows.Scan(&row.Date, &row.TotalTrx, &row.TotalRevenue); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetRevenueAndCOGS sums price and cost snapshots over order items, so the
// profit & loss report reflects values as they were at sale time.
func (r *orderRepo) GetRevenueAndCOGS(start, end *time.Time) (float64, float64, error) {
	type row struct {
		Revenue float64
		Cogs    float64
	}
	var result row

	query := r.db.Model(&model.OrderItem{}).
		Select(`COALESCE(SUM(order_items.quantity * order_items.price_at_sale), 0) as revenue,
			COALESCE(SUM(order_items.quantity * order_items.cogs_at_sale), 0) as cogs`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status != ?", model.OrderCancelled)

	if start != nil && end != nil {
		query = query.Where("orders.transaction_date BETWEEN ? AND ?", *start, *end)
	}

	if err := query.Scan(&result).Error; err != nil {
		return 0, 0, err
	}
	return result.Revenue, result.Cogs, nil
}
