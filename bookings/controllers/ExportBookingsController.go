package controllers

import (
	"parking-marketplace-backend/middleware"
	"parking-marketplace-backend/utils"
	"parking-marketplace-backend/utils/apperr"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var exportHeaders = []string{
	"ReservationNumber", "SpaceID", "UserID", "StartTime", "EndTime", "DurationHours",
	"BasePrice", "DiscountAmount", "ExtensionAmount", "OvertimeAmount", "TotalAmount",
	"Currency", "Status", "PaymentStatus", "RefundAmount",
}

// ExportOwnerBookingsController writes the caller's owner bookings (filtered like the list
// endpoint, unpaginated) to an .xlsx file and streams it back.
func (bc *BookingController) ExportOwnerBookingsController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)

	filters := map[string]string{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		filters[string(key)] = string(value)
	})
	filter, err := filterFromQuery(filters)
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	reservations, _, err := bc.Service.List(c.UserContext(), principal, filter, true, 0, 0)
	if err != nil {
		return utils.SendError(c, bc.Logger, err)
	}

	path, err := utils.GenerateExcel(reservations, bc.ExportDir, "owner_bookings", exportHeaders)
	if err != nil {
		return utils.SendError(c, bc.Logger, apperr.Storage(err))
	}

	bc.Logger.Info("owner bookings exported",
		zap.String("owner_id", principal.UserID.String()),
		zap.Int("rows", len(reservations)),
		zap.String("file", path))
	return c.Download(path)
}
