package handler

import (
	"mekarsari-pos/internal/service"
	"mekarsari-pos/pkg/apperr"
	"mekarsari-pos/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MasterHandler covers the admin-maintained master data: ingredients,
// products and their recipes.
type MasterHandler struct {
	masterService service.MasterService
}

func NewMasterHandler(masterService service.MasterService) *MasterHandler {
	return &MasterHandler{masterService: masterService}
}

func actorString(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

// CreateIngredient
// POST /api/v1/admin/ingredients
func (h *MasterHandler) CreateIngredient(c *fiber.Ctx) error {
	var req service.IngredientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}

	ing, err := h.masterService.CreateIngredient(actorString(c), &req)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"message": "Ingredient created", "data": ing})
}

// ListIngredients
// GET /api/v1/admin/ingredients?search=
func (h *MasterHandler) ListIngredients(c *fiber.Ctx) error {
	items, err := h.masterService.ListIngredients(c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateIngredient
// PUT /api/v1/admin/ingredients/:id
func (h *MasterHandler) UpdateIngredient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validationf("invalid ingredient ID")
	}

	var req service.IngredientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}

	ing, err := h.masterService.UpdateIngredient(actorString(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Ingredient updated", "data": ing})
}

// DeleteIngredient
// DELETE /api/v1/admin/ingredients/:id
func (h *MasterHandler) DeleteIngredient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validationf("invalid ingredient ID")
	}

	if err := h.masterService.DeleteIngredient(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Ingredient deleted"})
}

// CreateProduct
// POST /api/v1/admin/products
func (h *MasterHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}

	product, err := h.masterService.CreateProduct(actorString(c), &req)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

// ListProducts
// GET /api/v1/admin/products
func (h *MasterHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.masterService.ListProducts()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// UpdateProduct
// PUT /api/v1/admin/products/:id
func (h *MasterHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validationf("invalid product ID")
	}

	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}

	product, err := h.masterService.UpdateProduct(actorString(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DeleteProduct
// DELETE /api/v1/admin/products/:id
func (h *MasterHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validationf("invalid product ID")
	}

	if err := h.masterService.DeleteProduct(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// AddRecipe attaches one ingredient line to a product
// POST /api/v1/admin/recipes
func (h *MasterHandler) AddRecipe(c *fiber.Ctx) error {
	var req service.RecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}
	if err := validator.Check(&req); err != nil {
		return err
	}

	recipe, err := h.masterService.AddRecipe(actorString(c), &req)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"message": "Recipe line added", "data": recipe})
}

// ListRecipes lists a product's recipe lines
// GET /api/v1/admin/products/:id/recipes
func (h *MasterHandler) ListRecipes(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validationf("invalid product ID")
	}

	recipes, err := h.masterService.ListRecipes(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": recipes})
}

// DeleteRecipe removes one recipe line
// DELETE /api/v1/admin/recipes/:id
func (h *MasterHandler) DeleteRecipe(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validationf("invalid recipe ID")
	}

	if err := h.masterService.DeleteRecipe(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Recipe line deleted"})
}
