package repository

import (
	"mekarsari-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindActive(category string) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID) error

	// Recipe lines
	CreateRecipe(recipe *model.Recipe) error
	FindRecipesByProduct(productID uuid.UUID) ([]model.Recipe, error)
	FindRecipeByID(id uuid.UUID) (*model.Recipe, error)
	DeleteRecipe(id uuid.UUID) error
	CountRecipesByIngredient(ingredientID uuid.UUID) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Order("name").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindActive is the cashier's menu catalogue: active products, optionally
// filtered by category, recipes preloaded for the has_recipe flag.
func (r *productRepo) FindActive(category string) ([]model.Product, error) {
	var products []model.Product
	query := r.db.Preload("Recipes").Where("is_active = ?", true).Order("name")
	if category != "" {
		query = query.Where("category LIKE ?", "%"+category+"%")
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) CreateRecipe(recipe *model.Recipe) error {
	return r.db.Create(recipe).Error
}

func (r *productRepo) FindRecipesByProduct(productID uuid.UUID) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := r.db.Preload("Ingredient").
		Where("product_id = ?", productID).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *productRepo) FindRecipeByID(id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *productRepo) DeleteRecipe(id uuid.UUID) error {
	return r.db.Delete(&model.Recipe{}, "id = ?", id).Error
}

func (r *productRepo) CountRecipesByIngredient(ingredientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Recipe{}).
		Where("ingredient_id = ?", ingredientID).
		Count(&count).Error
	return count, err
}
