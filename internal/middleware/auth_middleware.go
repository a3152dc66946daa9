package middleware

import (
	"strings"

	"mekarsari-pos/internal/model"
	"mekarsari-pos/internal/revocation"
	"mekarsari-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token, rejects revoked (logged-out)
// tokens, and sets user info in context for downstream handlers.
func RequireAuth(blocklist revocation.Checker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		revoked, err := blocklist.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			return c.Status(503).JSON(fiber.Map{"error": "Could not verify session"})
		}
		if revoked {
			return c.Status(401).JSON(fiber.Map{"error": "Session has been logged out"})
		}

		c.Locals("user_id", claims.UserID.String())
		c.Locals("username", claims.Username)
		c.Locals("full_name", claims.FullName)
		c.Locals("role", claims.Role)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// RequireRoles gates a route group to the given roles. Admin passes every
// gate; the owner runs the whole shop when staff is out.
func RequireRoles(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok || role == "" {
			return c.Status(403).JSON(fiber.Map{"error": "No role found"})
		}

		if model.Role(role) == model.RoleAdmin {
			return c.Next()
		}
		for _, allowed := range roles {
			if model.Role(role) == allowed {
				return c.Next()
			}
		}

		names := make([]string, 0, len(roles))
		for _, r := range roles {
			names = append(names, string(r))
		}
		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires role " + strings.Join(names, " or "),
		})
	}
}
