package handler

import (
	"errors"
	"log"

	"mekarsari-pos/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ErrorHandler is the app-level fiber error handler: services return *apperr.Error
// values and handlers just `return err`, the mapping to a status code lives here.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := apperr.As(err); ok {
		if appErr.Kind == apperr.KindPersistence {
			log.Printf("persistence error on %s %s: %v", c.Method(), c.Path(), appErr.Unwrap())
		}

		body := fiber.Map{"error": appErr.Message}
		if appErr.Shortage != nil {
			body["ingredient"] = appErr.Shortage.Ingredient
			body["required"] = appErr.Shortage.Required
			body["available"] = appErr.Shortage.Available
		}
		return c.Status(appErr.HTTPStatus()).JSON(body)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
}

// actorID reads the authenticated user's ID set by the auth middleware.
func actorID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, apperr.Unauthorizedf("not authenticated")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Unauthorizedf("invalid session identity")
	}
	return id, nil
}
