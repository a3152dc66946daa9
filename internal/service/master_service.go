package service

import (
	"errors"
	"strings"

	"mekarsari-pos/internal/model"
	"mekarsari-pos/internal/repository"
	"mekarsari-pos/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type IngredientRequest struct {
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	PurchaseUnit   string          `json:"purchase_unit"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

type ProductRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	IsActive *bool           `json:"is_active"`
}

type RecipeRequest struct {
	ProductID      uuid.UUID       `json:"product_id" validate:"uuid_required"`
	IngredientID   uuid.UUID       `json:"ingredient_id" validate:"uuid_required"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed"`
}

// MenuItem is the cashier-facing product card. HasRecipe warns the cashier
// that selling the item will not move any stock.
type MenuItem struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	HasRecipe bool            `json:"has_recipe"`
}

type MasterService interface {
	CreateIngredient(actorID string, req *IngredientRequest) (*model.Ingredient, error)
	ListIngredients(search string) ([]model.Ingredient, error)
	UpdateIngredient(actorID string, id uuid.UUID, req *IngredientRequest) (*model.Ingredient, error)
	DeleteIngredient(id uuid.UUID) error

	CreateProduct(actorID string, req *ProductRequest) (*model.Product, error)
	ListProducts() ([]model.Product, error)
	UpdateProduct(actorID string, id uuid.UUID, req *ProductRequest) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	Menu(category string) ([]MenuItem, error)

	AddRecipe(actorID string, req *RecipeRequest) (*model.Recipe, error)
	ListRecipes(productID uuid.UUID) ([]model.Recipe, error)
	DeleteRecipe(id uuid.UUID) error
}

type masterService struct {
	ingredientRepo repository.IngredientRepository
	productRepo    repository.ProductRepository
}

func NewMasterService(ingRepo repository.IngredientRepository, productRepo repository.ProductRepository) MasterService {
	return &masterService{ingredientRepo: ingRepo, productRepo: productRepo}
}

func (s *masterService) CreateIngredient(actorID string, req *IngredientRequest) (*model.Ingredient, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Unit) == "" {
		return nil, apperr.Validationf("ingredient name and unit are required")
	}

	if _, err := s.ingredientRepo.FindByName(name); err == nil {
		return nil, apperr.Conflictf("ingredient '%s' already exists", name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistencef(err, "failed to check ingredient name")
	}

	rate := req.ConversionRate
	if !rate.IsPositive() {
		rate = decimal.NewFromInt(1)
	}

	ing := &model.Ingredient{
		Name:           name,
		Unit:           req.Unit,
		PurchaseUnit:   req.PurchaseUnit,
		ConversionRate: rate,
		CurrentStock:   decimal.Zero,
		AvgCost:        decimal.Zero,
	}
	ing.CreatedBy = actorID
	ing.UpdatedBy = actorID

	if err := s.ingredientRepo.Create(ing); err != nil {
		return nil, apperr.Persistencef(err, "failed to create ingredient")
	}
	return ing, nil
}

func (s *masterService) ListIngredients(search string) ([]model.Ingredient, error) {
	items, err := s.ingredientRepo.FindAll(search)
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to list ingredients")
	}
	return items, nil
}

func (s *masterService) UpdateIngredient(actorID string, id uuid.UUID, req *IngredientRequest) (*model.Ingredient, error) {
	ing, err := s.ingredientRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("ingredient not found")
		}
		return nil, apperr.Persistencef(err, "failed to load ingredient")
	}

	if name := strings.TrimSpace(req.Name); name != "" && name != ing.Name {
		if _, err := s.ingredientRepo.FindByName(name); err == nil {
			return nil, apperr.Conflictf("ingredient '%s' already exists", name)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Persistencef(err, "failed to check ingredient name")
		}
		ing.Name = name
	}
	if req.Unit != "" {
		ing.Unit = req.Unit
	}
	if req.PurchaseUnit != "" {
		ing.PurchaseUnit = req.PurchaseUnit
	}
	if req.ConversionRate.IsPositive() {
		ing.ConversionRate = req.ConversionRate
	}
	ing.UpdatedBy = actorID

	if err := s.ingredientRepo.Update(ing); err != nil {
		return nil, apperr.Persistencef(err, "failed to update ingredient")
	}
	return ing, nil
}

// DeleteIngredient refuses while any recipe still references the ingredient;
// deleting it would silently zero the COGS of those products.
func (s *masterService) DeleteIngredient(id uuid.UUID) error {
	if _, err := s.ingredientRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("ingredient not found")
		}
		return apperr.Persistencef(err, "failed to load ingredient")
	}

	count, err := s.productRepo.CountRecipesByIngredient(id)
	if err != nil {
		return apperr.Persistencef(err, "failed to check recipe usage")
	}
	if count > 0 {
		return apperr.Conflictf("ingredient is used by %d recipe(s), remove those first", count)
	}

	if err := s.ingredientRepo.Delete(id); err != nil {
		return apperr.Persistencef(err, "failed to delete ingredient")
	}
	return nil
}

func (s *masterService) CreateProduct(actorID string, req *ProductRequest) (*model.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validationf("product name is required")
	}
	if req.Price.IsNegative() {
		return nil, apperr.Validationf("product price cannot be negative")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	product := &model.Product{
		Name:     name,
		Price:    req.Price,
		Category: req.Category,
		IsActive: active,
	}
	product.CreatedBy = actorID
	product.UpdatedBy = actorID

	if err := s.productRepo.Create(product); err != nil {
		return nil, apperr.Persistencef(err, "failed to create product")
	}
	return product, nil
}

func (s *masterService) ListProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to list products")
	}
	return products, nil
}

func (s *masterService) UpdateProduct(actorID string, id uuid.UUID, req *ProductRequest) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("product not found")
		}
		return nil, apperr.Persistencef(err, "failed to load product")
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		product.Name = name
	}
	if !req.Price.IsZero() {
		if req.Price.IsNegative() {
			return nil, apperr.Validationf("product price cannot be negative")
		}
		product.Price = req.Price
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	product.UpdatedBy = actorID

	if err := s.productRepo.Update(product); err != nil {
		return nil, apperr.Persistencef(err, "failed to update product")
	}
	return product, nil
}

// DeleteProduct soft-deletes; past order items keep their snapshots and the
// receipt of an old sale still renders.
func (s *masterService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("product not found")
		}
		return apperr.Persistencef(err, "failed to load product")
	}
	if err := s.productRepo.Delete(id); err != nil {
		return apperr.Persistencef(err, "failed to delete product")
	}
	return nil
}

func (s *masterService) Menu(category string) ([]MenuItem, error) {
	products, err := s.productRepo.FindActive(category)
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to load menu")
	}

	menu := make([]MenuItem, 0, len(products))
	for _, p := range products {
		menu = append(menu, MenuItem{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Category:  p.Category,
			HasRecipe: len(p.Recipes) > 0,
		})
	}
	return menu, nil
}

func (s *masterService) AddRecipe(actorID string, req *RecipeRequest) (*model.Recipe, error) {
	if !req.QuantityNeeded.IsPositive() {
		return nil, apperr.Validationf("quantity_needed must be greater than zero")
	}

	if _, err := s.productRepo.FindByID(req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("product not found")
		}
		return nil, apperr.Persistencef(err, "failed to load product")
	}
	if _, err := s.ingredientRepo.FindByID(req.IngredientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("ingredient not found")
		}
		return nil, apperr.Persistencef(err, "failed to load ingredient")
	}

	recipe := &model.Recipe{
		ProductID:      req.ProductID,
		IngredientID:   req.IngredientID,
		QuantityNeeded: req.QuantityNeeded,
	}
	recipe.CreatedBy = actorID
	recipe.UpdatedBy = actorID

	if err := s.productRepo.CreateRecipe(recipe); err != nil {
		return nil, apperr.Persistencef(err, "failed to add recipe line")
	}
	return recipe, nil
}

func (s *masterService) ListRecipes(productID uuid.UUID) ([]model.Recipe, error) {
	recipes, err := s.productRepo.FindRecipesByProduct(productID)
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to list recipes")
	}
	return recipes, nil
}

func (s *masterService) DeleteRecipe(id uuid.UUID) error {
	if _, err := s.productRepo.FindRecipeByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("recipe line not found")
		}
		return apperr.Persistencef(err, "failed to load recipe line")
	}
	if err := s.productRepo.DeleteRecipe(id); err != nil {
		return apperr.Persistencef(err, "failed to delete recipe line")
	}
	return nil
}
