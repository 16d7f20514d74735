package controllers

import (
	"parking-marketplace-backend/middleware"
	"parking-marketplace-backend/promos/services"
	"parking-marketplace-backend/utils"
	"parking-marketplace-backend/utils/apperr"
	"parking-marketplace-backend/utils/pagination"
	"parking-marketplace-backend/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PromoController struct {
	Service *services.PromoService
	Logger  *zap.Logger
}

func (pc *PromoController) CreatePromoController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)

	var req services.CreatePromoInput
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, pc.Logger, apperr.Validation("invalid request body"))
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return utils.SendError(c, pc.Logger, err)
	}

	promo, err := pc.Service.Create(c.UserContext(), principal, req)
	if err != nil {
		return utils.SendError(c, pc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusCreated, promo)
}

func (pc *PromoController) ListPromosController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return utils.SendError(c, pc.Logger, apperr.Validation(err.Error()))
	}

	promos, total, err := pc.Service.List(c.UserContext(), c.QueryBool("active_only", false), params.PageSize, params.Offset())
	if err != nil {
		return utils.SendError(c, pc.Logger, err)
	}

	page := pagination.NewPaginatedResponse(c, promos, total, params)
	return utils.SendSuccessWithMeta(c, fiber.StatusOK, page.Items, page.Pagination)
}

// ValidatePromoController checks a code against the current time. booking_hours is optional
// and only matters for codes with a minimum booking length.
func (pc *PromoController) ValidatePromoController(c *fiber.Ctx) error {
	hours := decimal.Zero
	if raw := c.Query("booking_hours"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			return utils.SendError(c, pc.Logger, apperr.Validation("booking_hours must be a non-negative number"))
		}
		hours = parsed
	}

	promo, err := pc.Service.Check(c.UserContext(), c.Params("code"), hours)
	if err != nil {
		return utils.SendError(c, pc.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, fiber.Map{
		"valid": true,
		"promo": promo,
	})
}
