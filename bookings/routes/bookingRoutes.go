package routes

import (
	"parking-marketplace-backend/bookings/controllers"
	"parking-marketplace-backend/bookings/services"
	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

// BookingRouterInit mounts the booking endpoints. Mutating routes pass through limiter when one
// is given.
func BookingRouterInit(
	router fiber.Router,
	appCtx *middleware.AppContext,
	reservationService *services.ReservationService,
	limiter fiber.Handler,
	exportDir string,
) {
	bookingController := &controllers.BookingController{
		Service:   reservationService,
		Logger:    appCtx.Logger,
		ExportDir: exportDir,
	}
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}

	protected := middleware.ProtectedRoute(appCtx)

	bookingRoutes := router.Group("/bookings", protected)
	bookingRoutes.Post("/", limiter, bookingController.CreateBookingController)
	bookingRoutes.Get("/", bookingController.GetMyBookingsController)
	bookingRoutes.Get("/:id", bookingController.GetBookingController)
	bookingRoutes.Post("/:id/pay", limiter, bookingController.PayBookingController)
	bookingRoutes.Post("/:id/cancel", limiter, bookingController.CancelBookingController)
	bookingRoutes.Post("/:id/check-in", limiter, bookingController.CheckInController)
	bookingRoutes.Post("/:id/check-out", limiter, bookingController.CheckOutController)
	bookingRoutes.Post("/:id/extend", limiter, bookingController.ExtendBookingController)

	ownerOnly := middleware.RequireRole(appCtx.Logger, models.OwnerRole, models.AdminRole)
	ownerRoutes := router.Group("/owner", protected, ownerOnly)
	ownerRoutes.Get("/bookings", bookingController.GetOwnerBookingsController)
	ownerRoutes.Get("/bookings/export", bookingController.ExportOwnerBookingsController)

	router.Get("/spaces/:id/quote", protected, bookingController.QuoteController)
}
