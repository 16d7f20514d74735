package controllers

import (
	"parking-marketplace-backend/availability/services"
	"parking-marketplace-backend/middleware"
	"parking-marketplace-backend/utils"
	"parking-marketplace-backend/utils/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityController struct {
	Service *services.AvailabilityService
	Logger  *zap.Logger
}

type bulkAvailabilityRequest struct {
	Schedules []services.WindowInput `json:"schedules"`
}

func pathID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation(name + " must be a valid UUID")
	}
	return id, nil
}

func (ac *AvailabilityController) ListAvailabilityController(c *fiber.Ctx) error {
	spaceID, err := pathID(c, "id")
	if err != nil {
		return utils.SendError(c, ac.Logger, err)
	}
	windows, err := ac.Service.List(c.UserContext(), spaceID)
	if err != nil {
		return utils.SendError(c, ac.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, windows)
}

func (ac *AvailabilityController) CreateAvailabilityController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)
	spaceID, err := pathID(c, "id")
	if err != nil {
		return utils.SendError(c, ac.Logger, err)
	}

	var req services.WindowInput
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, ac.Logger, apperr.Validation("invalid request body"))
	}

	window, err := ac.Service.Create(c.UserContext(), principal, spaceID, req)
	if err != nil {
		return utils.SendError(c, ac.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusCreated, window)
}

// BulkCreateAvailabilityController answers 201 when every entry was created, 207 when only
// some were and 422 when none were.
func (ac *AvailabilityController) BulkCreateAvailabilityController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)
	spaceID, err := pathID(c, "id")
	if err != nil {
		return utils.SendError(c, ac.Logger, err)
	}

	var req bulkAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, ac.Logger, apperr.Validation("invalid request body"))
	}

	result, err := ac.Service.BulkCreate(c.UserContext(), principal, spaceID, req.Schedules)
	if err != nil {
		return utils.SendError(c, ac.Logger, err)
	}

	status := fiber.StatusCreated
	switch {
	case result.CreatedCount == 0:
		status = fiber.StatusUnprocessableEntity
	case result.FailedCount > 0:
		status = fiber.StatusMultiStatus
	}
	return utils.SendSuccess(c, status, result)
}

func (ac *AvailabilityController) UpdateAvailabilityController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)
	id, err := pathID(c, "id")
	if err != nil {
		return utils.SendError(c, ac.Logger, err)
	}

	var req services.WindowInput
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, ac.Logger, apperr.Validation("invalid request body"))
	}

	window, err := ac.Service.Update(c.UserContext(), principal, id, req)
	if err != nil {
		return utils.SendError(c, ac.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, window)
}

func (ac *AvailabilityController) DeleteAvailabilityController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)
	id, err := pathID(c, "id")
	if err != nil {
		return utils.SendError(c, ac.Logger, err)
	}

	if err := ac.Service.Delete(c.UserContext(), principal, id); err != nil {
		return utils.SendError(c, ac.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, fiber.Map{"id": id, "deleted": true})
}
