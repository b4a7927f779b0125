package middleware

import (
	"context"
	"encoding/json"
	"time"

	"realty-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Admin sessions are stored in Redis under "session:<id>" as the JSON-encoded actor.
// The cookie carries the bare id, a UUID; any other value means no session.
const (
	SessionCookieName  = "realty.sid"
	UserSessionsPrefix = "user_sessions:"
	DefaultSessionTTL  = 24 * time.Hour

	sessionKeyPrefix = "session:"
	sessionLocal     = "session"
)

// SessionOptions shape the session cookie.
type SessionOptions struct {
	TTL time.Duration
	// CrossSite sends SameSite=None for an admin frontend served from another site.
	CrossSite bool
	Secure    bool
}

type session struct {
	id       string
	previous string
	actor    *domain.Actor
	started  bool
	ended    bool
}

// SessionKey is the Redis key holding session id.
func SessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Sessions resolves the caller from the session cookie before the handler runs.
// Afterwards it stores a session started by login, deletes one ended by logout
// and slides the expiry of any other live session.
func Sessions(rdb *redis.Client, ttl time.Duration) fiber.Handler {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return func(c *fiber.Ctx) error {
		s := &session{}
		if id := c.Cookies(SessionCookieName); id != "" {
			if _, err := uuid.Parse(id); err == nil {
				s.id = id
				s.actor = loadActor(c.UserContext(), rdb, id)
			}
		}
		c.Locals(sessionLocal, s)
		c.Locals(actorLocal, s.actor)

		if err := c.Next(); err != nil {
			return err
		}

		ctx := c.UserContext()
		if s.previous != "" {
			rdb.Del(ctx, SessionKey(s.previous))
		}
		switch {
		case s.ended:
			if s.id != "" {
				rdb.Del(ctx, SessionKey(s.id))
			}
		case s.started:
			b, err := json.Marshal(s.actor)
			if err != nil {
				return err
			}
			if err := rdb.Set(ctx, SessionKey(s.id), b, ttl).Err(); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("session: store failed")
			}
		case s.actor != nil:
			rdb.Expire(ctx, SessionKey(s.id), ttl)
		}
		return nil
	}
}

func loadActor(ctx context.Context, rdb *redis.Client, id string) *domain.Actor {
	b, err := rdb.Get(ctx, SessionKey(id)).Bytes()
	if err != nil {
		return nil
	}
	var a domain.Actor
	if json.Unmarshal(b, &a) != nil || a.UserID == "" {
		return nil
	}
	return &a
}

func current(c *fiber.Ctx) *session {
	if s, ok := c.Locals(sessionLocal).(*session); ok {
		return s
	}
	s := &session{}
	c.Locals(sessionLocal, s)
	return s
}

// StartSession binds actor to a fresh session id and returns the id.
// The session the request arrived with, if any, is discarded.
func StartSession(c *fiber.Ctx, actor *domain.Actor) string {
	s := current(c)
	if s.id != "" {
		s.previous = s.id
	}
	s.id = uuid.NewString()
	s.actor = actor
	s.started, s.ended = true, false
	c.Locals(actorLocal, actor)
	return s.id
}

// EndSession drops the current session and returns what it held.
func EndSession(c *fiber.Ctx) (id string, actor *domain.Actor) {
	s := current(c)
	id, actor = s.id, s.actor
	s.actor = nil
	s.started, s.ended = false, true
	c.Locals(actorLocal, (*domain.Actor)(nil))
	return id, actor
}

// SessionID returns the id of the current session ("" when anonymous).
func SessionID(c *fiber.Ctx) string {
	return current(c).id
}

// Cookie returns the session cookie for value; an empty value expires it.
func (o SessionOptions) Cookie(value string) *fiber.Cookie {
	ttl := o.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	maxAge := int(ttl.Seconds())
	if value == "" {
		maxAge = -1
	}
	sameSite := fiber.CookieSameSiteLaxMode
	if o.CrossSite {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	return &fiber.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HTTPOnly: true,
		Secure:   o.Secure,
		SameSite: sameSite,
	}
}
