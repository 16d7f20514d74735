package utils

import (
	"errors"

	"parking-marketplace-backend/utils/apperr"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ErrorBody struct {
	Code    apperr.Kind `json:"code"`
	HTTP    int         `json:"http"`
	Message string      `json:"message"`
	TraceID string      `json:"traceId"`
	Details interface{} `json:"details,omitempty"`
}

// SendSuccess writes the standard success envelope.
func SendSuccess(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func SendSuccessWithMeta(c *fiber.Ctx, status int, data, meta interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
		"meta":    meta,
	})
}

// TraceID returns the request id assigned by the requestid middleware.
func TraceID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// SendError renders err in the error envelope. Unclassified and storage errors are logged
// and replaced by a generic message.
func SendError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	body := ErrorBody{TraceID: TraceID(c)}

	var appErr *apperr.Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		body.Code = appErr.Kind
		body.Message = appErr.Message
		body.Details = appErr.Details
	case errors.As(err, &fiberErr):
		body.Code = kindForStatus(fiberErr.Code)
		body.Message = fiberErr.Message
	default:
		body.Code = apperr.KindStorageUnavailable
	}
	body.HTTP = body.Code.HTTPStatus()
	if fiberErr != nil && appErr == nil {
		body.HTTP = fiberErr.Code
	}

	if body.Code == apperr.KindStorageUnavailable {
		if logger != nil {
			logger.Error("request failed",
				zap.String("trace_id", body.TraceID),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		body.Message = "internal server error"
		body.Details = nil
	}

	return c.Status(body.HTTP).JSON(fiber.Map{
		"success": false,
		"error":   body,
	})
}

func kindForStatus(status int) apperr.Kind {
	switch status {
	case fiber.StatusNotFound:
		return apperr.KindNotFound
	case fiber.StatusForbidden:
		return apperr.KindForbidden
	case fiber.StatusBadRequest, fiber.StatusMethodNotAllowed:
		return apperr.KindValidationFailed
	case fiber.StatusUnauthorized:
		return apperr.KindUnauthorized
	case fiber.StatusConflict:
		return apperr.KindConflict
	case fiber.StatusTooManyRequests:
		return apperr.KindRateLimited
	case fiber.StatusUnprocessableEntity:
		return apperr.KindOperationNotAllowed
	default:
		return apperr.KindStorageUnavailable
	}
}

// ErrorHandler is the fiber.Config ErrorHandler: anything a handler returns unrendered ends
// up in the same envelope.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return SendError(c, logger, err)
	}
}
