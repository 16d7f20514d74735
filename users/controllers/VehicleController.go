package controllers

import (
	"parking-marketplace-backend/middleware"
	"parking-marketplace-backend/users/services"
	"parking-marketplace-backend/utils"
	"parking-marketplace-backend/utils/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VehicleController struct {
	Service *services.UserService
	Logger  *zap.Logger
}

func (vc *VehicleController) CreateVehicleController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)

	var req services.VehicleInput
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, vc.Logger, apperr.Validation("invalid request body"))
	}

	vehicle, err := vc.Service.RegisterVehicle(c.UserContext(), principal, req)
	if err != nil {
		return utils.SendError(c, vc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusCreated, vehicle)
}

func (vc *VehicleController) ListVehiclesController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)
	vehicles, err := vc.Service.ListVehicles(c.UserContext(), principal)
	if err != nil {
		return utils.SendError(c, vc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, vehicles)
}

func (vc *VehicleController) VerifyVehicleController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, vc.Logger, apperr.Validation("id must be a valid UUID"))
	}

	vehicle, err := vc.Service.VerifyVehicle(c.UserContext(), principal, id)
	if err != nil {
		return utils.SendError(c, vc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, vehicle)
}
