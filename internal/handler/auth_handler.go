package handler

import (
	"mekarsari-pos/internal/service"
	"mekarsari-pos/pkg/apperr"
	"mekarsari-pos/pkg/jwt"
	"mekarsari-pos/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid JSON body")
	}
	if err := validator.Check(&req); err != nil {
		return err
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"data":    resp,
	})
}

// Logout revokes the current token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*jwt.Claims)
	if !ok {
		return apperr.Unauthorizedf("not authenticated")
	}

	if err := h.authService.Logout(c.UserContext(), claims); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me returns the authenticated user's identity from the token
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user_id":   c.Locals("user_id"),
			"username":  c.Locals("username"),
			"full_name": c.Locals("full_name"),
			"role":      c.Locals("role"),
		},
	})
}
