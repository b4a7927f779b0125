package geocoding

import (
	"realty-backend/internal/application/geocoding"
	"realty-backend/internal/domain"
	"realty-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *geocoding.Service
}

// GET /api/v1/geocode/suggest?q=&limit=
func (h *Handlers) Suggest(c *fiber.Ctx) error {
	out := h.Service.Suggest(c.UserContext(), c.Query("q"), c.QueryInt("limit", 0))
	return response.Success(c, "Suggestions fetched successfully", out, nil)
}

// GET /api/v1/admin/geocode?address=&city=
func (h *Handlers) Lookup(c *fiber.Ctx) error {
	address := c.Query("address")
	if address == "" && c.Query("city") == "" {
		return response.FromError(c, domain.NewValidationError("address", "address is required"))
	}
	res := h.Service.Locate(c.UserContext(), address, c.Query("city"))
	if res == nil {
		return response.FromError(c, domain.NewNotFound("Location", address))
	}
	return response.Success(c, "Location found", res, nil)
}
