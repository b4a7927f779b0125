package features

import (
	featuresvc "realty-backend/internal/application/features"
	"realty-backend/internal/pkg/request"
	"realty-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *featuresvc.Service
}

// GET /api/v1/features
func (h *Handlers) List(c *fiber.Ctx) error {
	out, err := h.Service.List(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Features fetched successfully", out, nil)
}

// POST /api/v1/admin/features
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in featuresvc.FeatureInput
	if err := request.JSON(c, &in); err != nil {
		return response.FromError(c, err)
	}
	f, err := h.Service.Create(c.UserContext(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Feature created successfully", f, nil)
}

// DELETE /api/v1/admin/features/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Feature deleted successfully", fiber.Map{"id": id}, nil)
}
