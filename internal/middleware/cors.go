package middleware

import (
	"net/url"
	"strings"

	"realty-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const devPasswordHeader = "dev-password"

// CORSConfig decides which browser origins may call the API with credentials.
type CORSConfig struct {
	// AllowedSuffix admits origins ending with it, e.g. ".example.am".
	AllowedSuffix string
	// DevPassword admits any origin sending it in the dev-password header (not on preflight).
	DevPassword string
	// AllowLocalhost admits http://localhost and 127.0.0.1 on any port.
	AllowLocalhost bool
}

// CORS answers preflights itself and rejects other cross-origin requests from unknown origins with 403.
// Requests without an Origin header pass untouched.
func CORS(cfg CORSConfig) fiber.Handler {
	suffix := strings.ToLower(cfg.AllowedSuffix)
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" {
			return c.Next()
		}
		c.Vary(fiber.HeaderOrigin)
		preflight := c.Method() == fiber.MethodOptions

		switch {
		case suffix != "" && strings.HasSuffix(strings.ToLower(origin), suffix):
		case cfg.AllowLocalhost && isLocalOrigin(origin):
		case !preflight && cfg.DevPassword != "" && c.Get(devPasswordHeader) == cfg.DevPassword:
		default:
			return response.Forbidden(c, "Not allowed by CORS")
		}

		c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
		c.Set(fiber.HeaderAccessControlExposeHeaders, traceIDHeader)
		if !preflight {
			return c.Next()
		}
		c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, PUT, DELETE, OPTIONS")
		c.Set(fiber.HeaderAccessControlAllowHeaders, strings.Join([]string{
			fiber.HeaderContentType, fiber.HeaderAcceptLanguage, VisitorIDHeader, traceIDHeader, devPasswordHeader,
		}, ", "))
		c.Set(fiber.HeaderAccessControlMaxAge, "600")
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func isLocalOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Scheme != "http" {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1"
}
