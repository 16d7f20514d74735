package routes

import (
	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/middleware"
	"parking-marketplace-backend/spaces/controllers"
	"parking-marketplace-backend/spaces/services"

	"github.com/gofiber/fiber/v2"
)

func SpaceRouterInit(router fiber.Router, appCtx *middleware.AppContext, spaceService *services.SpaceService) {
	spaceController := &controllers.SpaceController{
		Service: spaceService,
		Logger:  appCtx.Logger,
	}

	spaceRoutes := router.Group("/spaces", middleware.ProtectedRoute(appCtx))
	spaceRoutes.Get("/nearby", spaceController.NearbySpacesController)
	spaceRoutes.Get("/search", spaceController.SearchSpacesController)
	spaceRoutes.Get("/:id", spaceController.GetSpaceController)
	spaceRoutes.Patch("/:id/rates", spaceController.UpdateRatesController)

	ownerOnly := middleware.RequireRole(appCtx.Logger, models.OwnerRole, models.AdminRole)
	spaceRoutes.Post("/", ownerOnly, spaceController.CreateSpaceController)
}
