package controllers

import (
	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/middleware"
	"parking-marketplace-backend/utils"
	"parking-marketplace-backend/utils/apperr"
	"parking-marketplace-backend/validation"

	"github.com/gofiber/fiber/v2"
)

type payBookingRequest struct {
	PaymentMethod     string  `json:"payment_method" validate:"omitempty,oneof=CARD WALLET CASH"`
	ExternalReference *string `json:"external_reference" validate:"omitempty,max=100"`
}

type cancelBookingRequest struct {
	CancellationReason *string `json:"cancellation_reason" validate:"omitempty,max=500"`
}

type checkInRequest struct {
	VerificationCode string `json:"verification_code" validate:"omitempty,len=6,numeric"`
}

type extendBookingRequest struct {
	NewEndTime string `json:"new_end_time" validate:"required"`
}

// parseOptionalBody tolerates an empty body for endpoints whose fields are all optional.
func parseOptionalBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("invalid request body")
	}
	return validation.ValidateStruct(out)
}

func (bc *BookingController) PayBookingController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)
	id, err := parseID(c, "id")
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	var req payBookingRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return utils.SendError(c, bc.Logger, err)
	}
	method := models.CardPaymentMethod
	if req.PaymentMethod != "" {
		method = models.PaymentMethod(req.PaymentMethod)
	}

	reservation, payment, err := bc.Service.ConfirmPayment(c.UserContext(), principal, id, method, req.ExternalReference)
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, fiber.Map{
		"reservation":       reservation,
		"payment":           payment,
		"verification_code": utils.StringValue(reservation.VerificationCode),
	})
}

func (bc *BookingController) CancelBookingController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)
	id, err := parseID(c, "id")
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	var req cancelBookingRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	result, err := bc.Service.Cancel(c.UserContext(), principal, id, req.CancellationReason)
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, result)
}

func (bc *BookingController) CheckInController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)
	id, err := parseID(c, "id")
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	var req checkInRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	reservation, err := bc.Service.CheckIn(c.UserContext(), principal, id, req.VerificationCode)
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, reservation)
}

func (bc *BookingController) CheckOutController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)
	id, err := parseID(c, "id")
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	result, err := bc.Service.CheckOut(c.UserContext(), principal, id)
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, result)
}

func (bc *BookingController) ExtendBookingController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)
	id, err := parseID(c, "id")
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	var req extendBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, bc.Logger, apperr.Validation("invalid request body"))
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return utils.SendError(c, bc.Logger, err)
	}
	newEnd, err := parseTime("new_end_time", req.NewEndTime)
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	result, err := bc.Service.Extend(c.UserContext(), principal, id, newEnd)
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, result)
}
