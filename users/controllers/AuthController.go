package controllers

import (
	"parking-marketplace-backend/middleware"
	"parking-marketplace-backend/token"
	"parking-marketplace-backend/users/services"
	"parking-marketplace-backend/utils"
	"parking-marketplace-backend/utils/apperr"
	"parking-marketplace-backend/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthController struct {
	Service *services.UserService
	AppCtx  *middleware.AppContext
	Logger  *zap.Logger
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (ac *AuthController) RegisterController(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, ac.Logger, apperr.Validation("invalid request body"))
	}

	user, err := ac.Service.Register(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, ac.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusCreated, user)
}

func (ac *AuthController) LoginController(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, ac.Logger, apperr.Validation("invalid request body"))
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return utils.SendError(c, ac.Logger, err)
	}

	user, err := ac.Service.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return utils.SendError(c, ac.Logger, err)
	}

	accessToken, refreshToken, err := middleware.IssueSession(c, ac.AppCtx, token.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		ac.Logger.Error("Failed to issue session", zap.String("user_id", user.ID.String()), zap.Error(err))
		return utils.SendError(c, ac.Logger, apperr.Storage(err))
	}

	ac.Logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return utils.SendSuccess(c, fiber.StatusOK, fiber.Map{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(middleware.AccessTokenDuration.Seconds()),
	})
}

func (ac *AuthController) LogoutController(c *fiber.Ctx) error {
	if err := middleware.RevokeSession(c, ac.AppCtx); err != nil {
		return utils.SendError(c, ac.Logger, apperr.Storage(err))
	}
	return utils.SendSuccess(c, fiber.StatusOK, fiber.Map{"logged_out": true})
}

func (ac *AuthController) MeController(c *fiber.Ctx) error {
	principal, _ := middleware.CurrentPrincipal(c)
	user, err := ac.Service.Me(c.UserContext(), principal)
	if err != nil {
		return utils.SendError(c, ac.Logger, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, user)
}
