package statuses

import (
	statussvc "realty-backend/internal/application/statuses"
	"realty-backend/internal/middleware"
	"realty-backend/internal/pkg/request"
	"realty-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *statussvc.Service
}

// GET /api/v1/statuses (public: active only) and GET /api/v1/admin/statuses (all)
func (h *Handlers) List(c *fiber.Ctx) error {
	all := middleware.Actor(c).IsAdmin() && c.QueryBool("include_inactive", true)
	out, err := h.Service.List(c.UserContext(), all)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Statuses fetched successfully", out, nil)
}

// POST /api/v1/admin/statuses
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in statussvc.StatusInput
	if err := request.JSON(c, &in); err != nil {
		return response.FromError(c, err)
	}
	st, err := h.Service.Create(c.UserContext(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Status created successfully", st, nil)
}

// PUT /api/v1/admin/statuses/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var in statussvc.StatusInput
	if err := request.JSON(c, &in); err != nil {
		return response.FromError(c, err)
	}
	st, err := h.Service.Update(c.UserContext(), id, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Status updated successfully", st, nil)
}

// DELETE /api/v1/admin/statuses/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Status deleted successfully", fiber.Map{"id": id}, nil)
}
