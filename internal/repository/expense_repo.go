package repository

import (
	"time"

	"mekarsari-pos/internal/model"

	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(expense *model.OperationalExpense) error
	FindByDateRange(start, end *time.Time) ([]model.OperationalExpense, error)
	SumByDateRange(start, end *time.Time) (float64, error)
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepository {
	return &expenseRepo{db}
}

func (r *expenseRepo) Create(expense *model.OperationalExpense) error {
	return r.db.Create(expense).Error
}

func (r *expenseRepo) FindByDateRange(start, end *time.Time) ([]model.OperationalExpense, error) {
	var expenses []model.OperationalExpense
	query := r.db.Order("expense_date DESC")
	if start != nil && end != nil {
		query = query.Where("expense_date BETWEEN ? AND ?", *start, *end)
	}
	if err := query.Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepo) SumByDateRange(start, end *time.Time) (float64, error) {
	var total float64
	query := r.db.Model(&model.OperationalExpense{}).
		Select("COALESCE(SUM(amount), 0)")
	if start != nil && end != nil {
		query = query.Where("expense_date BETWEEN ? AND ?", *start, *end)
	}
	err := query.Scan(&total).Error
	return total, err
}
