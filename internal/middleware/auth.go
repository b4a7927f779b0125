package middleware

import (
	"realty-backend/internal/domain"
	"realty-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const actorLocal = "actor"

// RequireAuth rejects requests that carry no session actor with 401.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Actor(c) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// Actor returns the caller resolved by Sessions (nil when anonymous).
func Actor(c *fiber.Ctx) *domain.Actor {
	a, _ := c.Locals(actorLocal).(*domain.Actor)
	return a
}
