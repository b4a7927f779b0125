package middleware

import (
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	traceIDHeader     = "X-Trace-Id"
	traceparentHeader = "traceparent"
	traceIDLocal      = "trace_id"

	// VisitorIDHeader names an anonymous visitor for view counting and favorites.
	VisitorIDHeader = "X-Visitor-Id"
)

// Tracing gives every request a trace id, echoes it in X-Trace-Id and binds a logger
// carrying it to the request context (zerolog.Ctx(c.UserContext())).
// The id is taken from a UUID X-Trace-Id, then from a W3C traceparent header; otherwise a new UUID.
func Tracing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := incomingTraceID(c)
		c.Locals(traceIDLocal, traceID)
		c.Set(traceIDHeader, traceID)
		logger := log.With().Str("trace_id", traceID).Logger()
		c.SetUserContext(logger.WithContext(c.UserContext()))
		return c.Next()
	}
}

func incomingTraceID(c *fiber.Ctx) string {
	if id, err := uuid.Parse(c.Get(traceIDHeader)); err == nil {
		return id.String()
	}
	// version-traceid-parentid-flags
	parts := strings.Split(c.Get(traceparentHeader), "-")
	if len(parts) == 4 && len(parts[1]) == 32 && parts[1] != strings.Repeat("0", 32) {
		if _, err := hex.DecodeString(parts[1]); err == nil {
			return strings.ToLower(parts[1])
		}
	}
	return uuid.NewString()
}

// GetTraceID returns the trace id assigned by Tracing ("" outside it).
func GetTraceID(c *fiber.Ctx) string {
	id, _ := c.Locals(traceIDLocal).(string)
	return id
}
