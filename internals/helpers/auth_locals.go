package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys populated by the auth middlewares.
const (
	LocUserID   = "user_id"
	LocUserRole = "userRole"
)

// GetUserIDFromLocals returns the authenticated caller's id, or uuid.Nil
// for anonymous requests (optional-auth routes).
func GetUserIDFromLocals(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals(LocUserID).(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing user context")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - invalid user id")
	}
	return id, nil
}

func GetRoleFromLocals(c *fiber.Ctx) string {
	if role, ok := c.Locals(LocUserRole).(string); ok {
		return role
	}
	return ""
}

// ParseUUIDParam parses a :param path segment as UUID.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}
