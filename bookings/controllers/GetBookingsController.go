package controllers

import (
	"parking-marketplace-backend/bookings/services"
	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/middleware"
	"parking-marketplace-backend/utils"
	"parking-marketplace-backend/utils/apperr"
	"parking-marketplace-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// filterFromQuery reads status, space_id, from and to. Unknown keys are ignored.
func filterFromQuery(filters map[string]string) (services.ReservationFilter, error) {
	var filter services.ReservationFilter

	if raw, ok := filters["status"]; ok && raw != "" {
		status := models.ReservationStatus(raw)
		if !status.IsValid() {
			return filter, apperr.Validation("unknown reservation status: " + raw)
		}
		filter.Status = &status
	}
	if raw, ok := filters["space_id"]; ok && raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, apperr.Validation("space_id must be a valid UUID")
		}
		filter.SpaceID = &id
	}
	if raw, ok := filters["from"]; ok && raw != "" {
		from, err := parseTime("from", raw)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if raw, ok := filters["to"]; ok && raw != "" {
		to, err := parseTime("to", raw)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}
	return filter, nil
}

func (bc *BookingController) listBookings(c *fiber.Ctx, asOwner bool) error {
	principal, _ := middleware.CurrentPrincipal(c)

	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return utils.SendError(c, bc.Logger, apperr.Validation(err.Error()))
	}
	filter, err := filterFromQuery(params.Filters)
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	reservations, total, err := bc.Service.List(c.UserContext(), principal, filter, asOwner, params.PageSize, params.Offset())
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	page := pagination.NewPaginatedResponse(c, reservations, total, params)
	return utils.SendSuccessWithMeta(c, fiber.StatusOK, page.Items, page.Pagination)
}

func (bc *BookingController) GetMyBookingsController(c *fiber.Ctx) error {
	return bc.listBookings(c, false)
}

func (bc *BookingController) GetOwnerBookingsController(c *fiber.Ctx) error {
	return bc.listBookings(c, true)
}

func (bc *BookingController) GetBookingController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)

	id, err := parseID(c, "id")
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}
	reservation, err := bc.Service.Get(c.UserContext(), principal, id)
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, reservation)
}
