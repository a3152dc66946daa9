package handler

import (
	"mekarsari-pos/internal/service"
	"mekarsari-pos/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser registers a staff account
// POST /api/v1/admin/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}

	user, err := h.userService.CreateUser(actorString(c), &req)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"message": "User created", "data": user})
}

// ListUsers
// GET /api/v1/admin/users
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": users})
}

// ListStaff returns only cashier and kitchen accounts
// GET /api/v1/admin/users/staff
func (h *UserHandler) ListStaff(c *fiber.Ctx) error {
	users, err := h.userService.ListStaff()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": users})
}

// UpdateUser
// PUT /api/v1/admin/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validationf("invalid user ID")
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}

	user, err := h.userService.UpdateUser(actorString(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User updated", "data": user})
}

// DeactivateUser soft-deletes the account
// DELETE /api/v1/admin/users/:id
func (h *UserHandler) DeactivateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validationf("invalid user ID")
	}

	if err := h.userService.DeactivateUser(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User deactivated"})
}
