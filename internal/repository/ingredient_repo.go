package repository

import (
	"time"

	"mekarsari-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type IngredientRepository interface {
	Create(ing *model.Ingredient) error
	FindAll(search string) ([]model.Ingredient, error)
	FindByID(id uuid.UUID) (*model.Ingredient, error)
	FindByName(name string) (*model.Ingredient, error)
	Update(ing *model.Ingredient) error
	Delete(id uuid.UUID) error

	// LockByID reads the ingredient under a row lock inside tx. The order
	// engine and the costing engine rely on this for check-and-deduct.
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Ingredient, error)

	CountLowStock(threshold decimal.Decimal) (int64, error)
	FindLogsByIngredient(id uuid.UUID, limit int) ([]model.InventoryLog, error)
	FindLogsByDateRange(start, end time.Time) ([]model.InventoryLog, error)
}

type ingredientRepo struct {
	db *gorm.DB
}

func NewIngredientRepo(db *gorm.DB) IngredientRepository {
	return &ingredientRepo{db}
}

func (r *ingredientRepo) Create(ing *model.Ingredient) error {
	return r.db.Create(ing).Error
}

func (r *ingredientRepo) FindAll(search string) ([]model.Ingredient, error) {
	var items []model.Ingredient
	query := r.db.Order("name")
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ingredientRepo) FindByID(id uuid.UUID) (*model.Ingredient, error) {
	var ing model.Ingredient
	if err := r.db.First(&ing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *ingredientRepo) FindByName(name string) (*model.Ingredient, error) {
	var ing model.Ingredient
	if err := r.db.First(&ing, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *ingredientRepo) Update(ing *model.Ingredient) error {
	return r.db.Save(ing).Error
}

func (r *ingredientRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Ingredient{}, "id = ?", id).Error
}

func (r *ingredientRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Ingredient, error) {
	var ing model.Ingredient
	if err := lockForUpdate(tx).First(&ing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *ingredientRepo) CountLowStock(threshold decimal.Decimal) (int64, error) {
	var count int64
	err := r.db.Model(&model.Ingredient{}).
		Where("current_stock < ?", threshold).
		Count(&count).Error
	return count, err
}

func (r *ingredientRepo) FindLogsByIngredient(id uuid.UUID, limit int) ([]model.InventoryLog, error) {
	var logs []model.InventoryLog
	query := r.db.Where("ingredient_id = ?", id).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *ingredientRepo) FindLogsByDateRange(start, end time.Time) ([]model.InventoryLog, error) {
	var logs []model.InventoryLog
	if err := r.db.Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
