package routes

import (
	"parking-marketplace-backend/availability/controllers"
	"parking-marketplace-backend/availability/services"
	"parking-marketplace-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func AvailabilityRouterInit(router fiber.Router, appCtx *middleware.AppContext, availabilityService *services.AvailabilityService) {
	availabilityController := &controllers.AvailabilityController{
		Service: availabilityService,
		Logger:  appCtx.Logger,
	}

	protected := middleware.ProtectedRoute(appCtx)

	router.Get("/spaces/:id/availability", protected, availabilityController.ListAvailabilityController)
	router.Post("/spaces/:id/availability", protected, availabilityController.CreateAvailabilityController)
	router.Post("/spaces/:id/availability/bulk", protected, availabilityController.BulkCreateAvailabilityController)

	availabilityRoutes := router.Group("/availability", protected)
	availabilityRoutes.Put("/:id", availabilityController.UpdateAvailabilityController)
	availabilityRoutes.Delete("/:id", availabilityController.DeleteAvailabilityController)
}
