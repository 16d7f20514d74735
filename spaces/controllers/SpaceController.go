package controllers

import (
	"parking-marketplace-backend/middleware"
	"parking-marketplace-backend/spaces/services"
	"parking-marketplace-backend/utils"
	"parking-marketplace-backend/utils/apperr"
	"parking-marketplace-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SpaceController struct {
	Service *services.SpaceService
	Logger  *zap.Logger
}

func (sc *SpaceController) CreateSpaceController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)

	var req services.CreateSpaceInput
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, sc.Logger, apperr.Validation("invalid request body"))
	}

	space, err := sc.Service.Create(c.UserContext(), principal, req)
	if err != nil {
		return utils.SendError(c, sc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusCreated, space)
}

func (sc *SpaceController) GetSpaceController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, sc.Logger, apperr.Validation("id must be a valid UUID"))
	}
	space, err := sc.Service.GetSpace(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, sc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, space)
}

func (sc *SpaceController) UpdateRatesController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, sc.Logger, apperr.Validation("id must be a valid UUID"))
	}

	var req services.UpdateRatesInput
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, sc.Logger, apperr.Validation("invalid request body"))
	}

	space, err := sc.Service.UpdateRates(c.UserContext(), principal, id, req)
	if err != nil {
		return utils.SendError(c, sc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, space)
}

func (sc *SpaceController) NearbySpacesController(c *fiber.Ctx) error {
	if c.Query("lat") == "" || c.Query("lng") == "" {
		return utils.SendError(c, sc.Logger, apperr.Validation("lat and lng are required"))
	}

	spaces, err := sc.Service.Nearby(c.UserContext(),
		c.QueryFloat("lat"),
		c.QueryFloat("lng"),
		c.QueryFloat("radius_km", services.DefaultNearbyRadiusKm),
		c.QueryInt("limit", pagination.MaxPageSize),
	)
	if err != nil {
		return utils.SendError(c, sc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, spaces)
}

func (sc *SpaceController) SearchSpacesController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return utils.SendError(c, sc.Logger, apperr.Validation(err.Error()))
	}

	spaces, total, err := sc.Service.Search(c.UserContext(), c.Query("q"), c.Query("city"), params.PageSize, params.Offset())
	if err != nil {
		return utils.SendError(c, sc.Logger, err)
	}

	page := pagination.NewPaginatedResponse(c, spaces, total, params)
	return utils.SendSuccessWithMeta(c, fiber.StatusOK, page.Items, page.Pagination)
}
