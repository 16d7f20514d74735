package routes

import (
	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/middleware"
	"parking-marketplace-backend/users/controllers"
	"parking-marketplace-backend/users/services"

	"github.com/gofiber/fiber/v2"
)

func UserRouterInit(router fiber.Router, appCtx *middleware.AppContext, userService *services.UserService, limiter fiber.Handler) {
	authController := &controllers.AuthController{
		Service: userService,
		AppCtx:  appCtx,
		Logger:  appCtx.Logger,
	}
	vehicleController := &controllers.VehicleController{
		Service: userService,
		Logger:  appCtx.Logger,
	}
	protected := middleware.ProtectedRoute(appCtx)

	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", limiter, authController.RegisterController)
	authRoutes.Post("/login", limiter, authController.LoginController)
	authRoutes.Post("/logout", authController.LogoutController)
	authRoutes.Get("/me", protected, authController.MeController)

	vehicleRoutes := router.Group("/vehicles", protected)
	vehicleRoutes.Post("/", vehicleController.CreateVehicleController)
	vehicleRoutes.Get("/", vehicleController.ListVehiclesController)
	vehicleRoutes.Patch("/:id/verify",
		middleware.RequireRole(appCtx.Logger, models.AdminRole),
		vehicleController.VerifyVehicleController,
	)
}
