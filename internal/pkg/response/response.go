package response

import (
	"errors"

	"realty-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// SuccessBody is the standardized success JSON shape.
type SuccessBody struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// ErrorBody is the standardized error JSON shape.
type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

// ErrorDetail is the nested error object.
type ErrorDetail struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Details    interface{} `json:"details,omitempty"`
}

const statusSuccess = "success"
const statusError = "error"

// Success sends a 200 OK response with the standard success format.
func Success(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(fiber.StatusOK).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// SuccessCreated sends a 201 Created response with the standard success format.
func SuccessCreated(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(fiber.StatusCreated).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// Error sends a response with the standard error format.
func Error(c *fiber.Ctx, message string, statusCode int, details interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	return c.Status(statusCode).JSON(ErrorBody{
		Status: statusError,
		Error: ErrorDetail{
			Message:    message,
			StatusCode: statusCode,
			Details:    details,
		},
	})
}

// Unauthorized sends 401 with the same shape as other errors (status "error", error.message).
// Use this for auth middleware so all errors are consistent.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized, nil)
}

// Forbidden sends 403 in the standard error format.
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusForbidden, nil)
}

// NotFound sends 404 in the standard error format.
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusNotFound, nil)
}

// FromError maps a service error onto its status code and the standard error format.
// Validation errors carry the offending field in details.
func FromError(c *fiber.Ctx, err error) error {
	var (
		ve  *domain.ValidationError
		nf  *domain.NotFoundError
		ce  *domain.ConflictError
		te  *domain.TransactionError
		ext *domain.ExternalServiceError
		fe  *fiber.Error
	)
	switch {
	case errors.As(err, &ve):
		details := map[string]interface{}{}
		if ve.Field != "" {
			details["field"] = ve.Field
		}
		return Error(c, ve.Message, fiber.StatusBadRequest, details)
	case errors.As(err, &nf):
		return NotFound(c, nf.Error())
	case errors.As(err, &ce):
		return Error(c, ce.Message, fiber.StatusConflict, nil)
	case errors.Is(err, domain.ErrForbidden):
		return Forbidden(c, err.Error())
	case errors.As(err, &te):
		log.Error().Err(te.Err).Str("op", te.Op).Str("path", c.Path()).Msg("transaction failed")
		return Error(c, te.Error(), fiber.StatusInternalServerError, nil)
	case errors.As(err, &ext):
		log.Error().Err(ext.Err).Str("service", ext.Service).Str("path", c.Path()).Msg("external service failed")
		return Error(c, ext.Service+" is unavailable", fiber.StatusBadGateway, nil)
	case errors.As(err, &fe):
		return Error(c, fe.Message, fe.Code, nil)
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}
