package routes

import (
	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/middleware"
	"parking-marketplace-backend/promos/controllers"
	"parking-marketplace-backend/promos/services"

	"github.com/gofiber/fiber/v2"
)

func PromoRouterInit(router fiber.Router, appCtx *middleware.AppContext, promoService *services.PromoService) {
	promoController := &controllers.PromoController{
		Service: promoService,
		Logger:  appCtx.Logger,
	}

	promoRoutes := router.Group("/promos", middleware.ProtectedRoute(appCtx))
	promoRoutes.Get("/:code/validate", promoController.ValidatePromoController)

	adminOnly := middleware.RequireRole(appCtx.Logger, models.AdminRole)
	promoRoutes.Post("/", adminOnly, promoController.CreatePromoController)
	promoRoutes.Get("/", adminOnly, promoController.ListPromosController)
}
