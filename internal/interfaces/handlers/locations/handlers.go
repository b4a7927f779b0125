package locations

import (
	"realty-backend/internal/application/location"
	"realty-backend/internal/pkg/request"
	"realty-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *location.Service
}

type cityBody struct {
	Name string `json:"name"`
}

// GET /api/v1/locations/regions
func (h *Handlers) Regions(c *fiber.Ctx) error {
	out, err := h.Service.Regions(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Regions fetched successfully", out, nil)
}

// GET /api/v1/locations/regions/:id/districts
func (h *Handlers) Districts(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.Service.Districts(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Districts fetched successfully", out, nil)
}

// GET /api/v1/locations/regions/:id/cities
func (h *Handlers) Cities(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.Service.Cities(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Cities fetched successfully", out, nil)
}

// POST /api/v1/admin/locations/regions/:id/cities
func (h *Handlers) CreateCity(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body cityBody
	if err := request.JSON(c, &body); err != nil {
		return response.FromError(c, err)
	}
	city, err := h.Service.CreateCity(c.UserContext(), id, body.Name)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "City created successfully", city, nil)
}
