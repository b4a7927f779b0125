package middleware

import (
	"realty-backend/internal/domain"
	"realty-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthorizeRole lets through only actors holding one of roles.
// No actor -> 401; actor without a role -> 500 "Authorization error"; other roles -> 403.
func AuthorizeRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		actor := Actor(c)
		switch {
		case actor == nil:
			return response.Unauthorized(c, "Unauthorized")
		case actor.Role == "":
			return response.Error(c, "Authorization error", fiber.StatusInternalServerError, nil)
		case !allowed[actor.Role]:
			return response.Forbidden(c, domain.ErrForbidden.Error())
		}
		return c.Next()
	}
}

// RequireAdmin guards every admin route.
func RequireAdmin() []fiber.Handler {
	return []fiber.Handler{RequireAuth(), AuthorizeRole(domain.RoleAdmin, domain.RoleSuperadmin)}
}
