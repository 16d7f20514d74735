package controllers

import (
	"time"

	"parking-marketplace-backend/bookings/services"
	"parking-marketplace-backend/utils"
	"parking-marketplace-backend/utils/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingController struct {
	Service   *services.ReservationService
	Logger    *zap.Logger
	ExportDir string
}

func parseID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation(name + " must be a valid UUID")
	}
	return id, nil
}

func parseTime(field, value string) (time.Time, error) {
	t, err := utils.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, apperr.Validation(field + " must be an ISO-8601 timestamp").
			WithDetails(map[string]interface{}{"field": field, "value": value})
	}
	return t, nil
}
