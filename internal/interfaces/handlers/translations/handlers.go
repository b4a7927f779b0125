package translations

import (
	"realty-backend/internal/application/translation"
	"realty-backend/internal/pkg/request"
	"realty-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Enricher *translation.Enricher
}

type manualBody struct {
	Lang  string `json:"lang"`
	Field string `json:"field"`
	Text  string `json:"text"`
}

// POST /api/v1/admin/translations/batch?limit=
func (h *Handlers) TranslateMissing(c *fiber.Ctx) error {
	res, err := h.Enricher.TranslateMissing(c.UserContext(), c.QueryInt("limit", translation.DefaultBatchLimit))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Translation batch finished", res, nil)
}

// POST /api/v1/admin/properties/:id/translate
func (h *Handlers) Retranslate(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	status := h.Enricher.Enrich(c.UserContext(), id)
	return response.Success(c, "Translation finished", fiber.Map{"id": id, "translation_status": status}, nil)
}

// PUT /api/v1/admin/properties/:id/translations
func (h *Handlers) SetManual(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body manualBody
	if err := request.JSON(c, &body); err != nil {
		return response.FromError(c, err)
	}
	if err := h.Enricher.SetManual(c.UserContext(), id, body.Lang, body.Field, body.Text); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Translation saved", fiber.Map{"id": id, "lang": body.Lang, "field": body.Field}, nil)
}

// GET /api/v1/admin/properties/:id/translations
func (h *Handlers) Records(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.Enricher.Records(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Translations fetched successfully", out, nil)
}
