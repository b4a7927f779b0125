package auth

import (
	"errors"

	authsvc "realty-backend/internal/application/auth"
	"realty-backend/internal/middleware"
	"realty-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Handlers serves admin sign-in. Auth is nil when no database is configured.
type Handlers struct {
	Auth   authsvc.Authenticator
	Rdb    *redis.Client
	Cookie middleware.SessionOptions
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.Auth == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, authsvc.ErrCredentialsRequired.Error(), fiber.StatusBadRequest, nil)
	}
	ctx := c.UserContext()
	actor, err := h.Auth.Authenticate(ctx, in.Email, in.Password)
	switch {
	case errors.Is(err, authsvc.ErrCredentialsRequired):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, authsvc.ErrNotAdmin):
		return response.Forbidden(c, err.Error())
	case err != nil:
		return response.FromError(c, err)
	}

	sid := middleware.StartSession(c, actor)
	if err := h.Rdb.SAdd(ctx, middleware.UserSessionsPrefix+actor.UserID, sid).Err(); err != nil {
		return response.FromError(c, err)
	}
	c.Cookie(h.Cookie.Cookie(sid))

	zerolog.Ctx(ctx).Info().Str("user_id", actor.UserID).Msg("auth: admin signed in")
	return response.Success(c, "Login successful", fiber.Map{"user": actor}, nil)
}

// Me GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	actor := middleware.Actor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": actor}, nil)
}

// Logout DELETE /api/v1/auth/logout. With ?all=true every session of the admin is revoked.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()
	sid, actor := middleware.EndSession(c)
	if actor != nil {
		index := middleware.UserSessionsPrefix + actor.UserID
		if c.QueryBool("all") {
			ids, _ := h.Rdb.SMembers(ctx, index).Result()
			keys := []string{index}
			for _, id := range ids {
				keys = append(keys, middleware.SessionKey(id))
			}
			h.Rdb.Del(ctx, keys...)
			zerolog.Ctx(ctx).Info().Str("user_id", actor.UserID).Int("sessions", len(ids)).Msg("auth: all sessions revoked")
		} else if sid != "" {
			h.Rdb.SRem(ctx, index, sid)
		}
	}
	c.Cookie(h.Cookie.Cookie(""))
	return response.Success(c, "Logged out successfully", nil, nil)
}
