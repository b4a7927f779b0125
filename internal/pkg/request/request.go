// Package request holds small helpers shared by the fiber handlers for reading path
// parameters and bodies.
package request

import (
	"encoding/json"
	"strconv"

	"realty-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// ParamID reads a positive integer path parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, domain.NewValidationError(name, "%s must be a positive integer", name)
	}
	return uint(v), nil
}

// JSON decodes the request body into dst.
func JSON(c *fiber.Ctx, dst interface{}) error {
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return domain.NewValidationError("body", "Invalid request body")
	}
	return nil
}
