package media

import (
	mediasvc "realty-backend/internal/application/media"
	"realty-backend/internal/pkg/request"
	"realty-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *mediasvc.Service
}

type reorderBody struct {
	Order []uint `json:"order"`
}

// GET /api/v1/admin/properties/:id/media
func (h *Handlers) List(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.Service.List(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Media fetched successfully", out, nil)
}

// PUT /api/v1/admin/properties/:id/media/order
func (h *Handlers) Reorder(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body reorderBody
	if err := request.JSON(c, &body); err != nil {
		return response.FromError(c, err)
	}
	out, err := h.Service.Reorder(c.UserContext(), id, body.Order)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Media reordered successfully", out, nil)
}

// PUT /api/v1/admin/media/:media_id/primary
func (h *Handlers) SetPrimary(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "media_id")
	if err != nil {
		return response.FromError(c, err)
	}
	m, err := h.Service.SetPrimary(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Primary media updated", m, nil)
}

// DELETE /api/v1/admin/media/:media_id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "media_id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Media deleted successfully", fiber.Map{"id": id}, nil)
}
