package listings

import (
	listsvc "realty-backend/internal/application/listings"
	"realty-backend/internal/middleware"
	"realty-backend/internal/pkg/request"
	"realty-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *listsvc.Service
}

// GET /api/v1/properties and GET /api/v1/admin/properties
func (h *Handlers) List(c *fiber.Ctx) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	page, err := h.Service.ListProperties(c.UserContext(), middleware.Actor(c), f)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Properties fetched successfully", page.Items, fiber.Map{
		"total":       page.Total,
		"page":        page.Page,
		"limit":       page.Limit,
		"total_pages": page.TotalPages,
	})
}

// GET /api/v1/properties/:custom_id
func (h *Handlers) GetByCustomID(c *fiber.Ctx) error {
	vm, err := h.Service.GetByCustomID(c.UserContext(), middleware.Actor(c), c.Params("custom_id"), viewerKey(c), lang(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Property fetched successfully", vm, nil)
}

// POST /api/v1/properties/:custom_id/favorite
func (h *Handlers) ToggleFavorite(c *fiber.Ctx) error {
	res, err := h.Service.ToggleFavorite(c.UserContext(), c.Params("custom_id"), viewerKey(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Favorite updated", res, nil)
}

// GET /api/v1/admin/properties/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	vm, err := h.Service.Get(c.UserContext(), middleware.Actor(c), id, lang(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Property fetched successfully", vm, nil)
}

// POST /api/v1/admin/properties (multipart: data + media files)
func (h *Handlers) Create(c *fiber.Ctx) error {
	form, uploads, err := parseListingForm(c)
	if err != nil {
		return response.FromError(c, err)
	}
	vm, err := h.Service.Create(c.UserContext(), middleware.Actor(c), listsvc.CreateInput{
		Fields:  form.fields(),
		Uploads: uploads,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Property created successfully", vm, nil)
}

// PUT /api/v1/admin/properties/:id (multipart: data, media files, media_order, primary_media)
func (h *Handlers) Edit(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	form, uploads, err := parseListingForm(c)
	if err != nil {
		return response.FromError(c, err)
	}
	vm, err := h.Service.Edit(c.UserContext(), middleware.Actor(c), id, listsvc.EditInput{
		Fields:       form.fields(),
		Uploads:      uploads,
		MediaOrder:   form.MediaOrder,
		PrimaryMedia: form.PrimaryMedia,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Property updated successfully", vm, nil)
}

// DELETE /api/v1/admin/properties/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), middleware.Actor(c), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Property deleted successfully", fiber.Map{"id": id}, nil)
}

func lang(c *fiber.Ctx) string {
	return c.Query("lang", c.Get(fiber.HeaderAcceptLanguage))
}
