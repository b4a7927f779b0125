package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCORSApp(cfg CORSConfig) *fiber.App {
	app := fiber.New()
	app.Use(CORS(cfg))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	return app
}

func corsRequest(t *testing.T, app *fiber.App, method, origin string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCORS_SuffixOrigin(t *testing.T) {
	app := setupCORSApp(CORSConfig{AllowedSuffix: ".Example.am"})

	resp := corsRequest(t, app, http.MethodGet, "https://admin.example.am", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://admin.example.am", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "X-Trace-Id", resp.Header.Get("Access-Control-Expose-Headers"))
	assert.Contains(t, resp.Header.Get("Vary"), "Origin")

	resp = corsRequest(t, app, http.MethodOptions, "https://admin.example.am", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "X-Visitor-Id")
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Equal(t, "600", resp.Header.Get("Access-Control-Max-Age"))
}

func TestCORS_RejectsUnknownOrigin(t *testing.T) {
	app := setupCORSApp(CORSConfig{AllowedSuffix: ".example.am", DevPassword: "letmein"})

	resp := corsRequest(t, app, http.MethodGet, "https://evil.example.com", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))

	resp = corsRequest(t, app, http.MethodGet, "http://localhost:3000", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCORS_DevPasswordAndLocalhost(t *testing.T) {
	app := setupCORSApp(CORSConfig{DevPassword: "letmein", AllowLocalhost: true})

	resp := corsRequest(t, app, http.MethodGet, "https://preview.vercel.app", map[string]string{"dev-password": "letmein"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = corsRequest(t, app, http.MethodOptions, "https://preview.vercel.app", map[string]string{"dev-password": "letmein"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = corsRequest(t, app, http.MethodOptions, "http://localhost:5173", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = corsRequest(t, app, http.MethodGet, "http://127.0.0.1:8081", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = corsRequest(t, app, http.MethodGet, "https://localhost.attacker.io", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCORS_NoOriginPasses(t *testing.T) {
	app := setupCORSApp(CORSConfig{})
	resp := corsRequest(t, app, http.MethodGet, "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
