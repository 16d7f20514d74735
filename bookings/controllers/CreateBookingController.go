package controllers

import (
	"parking-marketplace-backend/bookings/services"
	"parking-marketplace-backend/middleware"
	"parking-marketplace-backend/utils"
	"parking-marketplace-backend/utils/apperr"
	"parking-marketplace-backend/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type createBookingRequest struct {
	SpaceID   string `json:"space_id" validate:"required,uuid"`
	VehicleID string `json:"vehicle_id" validate:"required,uuid"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	PromoCode string `json:"promo_code" validate:"omitempty,max=40"`
}

func (bc *BookingController) CreateBookingController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)

	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		bc.Logger.Warn("failed to parse booking request", zap.Error(err))
		return utils.SendError(c, bc.Logger, apperr.Validation("invalid request body"))
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	start, err := parseTime("start_time", req.StartTime)
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}
	end, err := parseTime("end_time", req.EndTime)
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	reservation, err := bc.Service.Create(c.UserContext(), principal, services.CreateReservationInput{
		SpaceID:   uuid.MustParse(req.SpaceID),
		VehicleID: uuid.MustParse(req.VehicleID),
		StartTime: start,
		EndTime:   end,
		PromoCode: req.PromoCode,
	})
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusCreated, reservation)
}

// QuoteController prices a prospective booking for a space without writing anything.
func (bc *BookingController) QuoteController(c *fiber.Ctx) error {
	spaceID, err := parseID(c, "id")
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}
	start, err := parseTime("start_time", c.Query("start_time"))
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}
	end, err := parseTime("end_time", c.Query("end_time"))
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	quote, err := bc.Service.Quote(c.UserContext(), spaceID, start, end, c.Query("promo_code"))
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, quote)
}
