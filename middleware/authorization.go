package middleware

import (
	"strings"
	"time"

	"parking-marketplace-backend/config"
	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/token"
	"parking-marketplace-backend/utils"
	"parking-marketplace-backend/utils/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	AccessTokenDuration  = 15 * time.Minute
	RefreshTokenDuration = 7 * 24 * time.Hour

	refreshKeyPrefix = "refresh_token:"
	userLocalsKey    = "user"
)

// ProtectedRoute accepts a bearer access token or the access_token cookie. When neither is
// valid it rotates a single-use refresh token kept in Redis.
func ProtectedRoute(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// already authenticated by an enclosing group
		if _, ok := CurrentPrincipal(c); ok {
			return c.Next()
		}

		if accessToken := bearerOrCookie(c); accessToken != "" {
			payload, err := ctx.PasetoMaker.VerifyToken(accessToken)
			if err == nil {
				c.Locals(userLocalsKey, payload)
				return c.Next()
			}
			ctx.Logger.Debug("Invalid access token encountered", zap.Error(err))
		}

		refreshToken := c.Cookies("refresh_token")
		if refreshToken == "" {
			return utils.SendError(c, ctx.Logger, apperr.Unauthorized("authentication required"))
		}

		refreshPayload, err := ctx.PasetoMaker.VerifyToken(refreshToken)
		if err != nil {
			ctx.Logger.Debug("Refresh token verification failed", zap.Error(err))
			return utils.SendError(c, ctx.Logger, apperr.Unauthorized("session expired or invalid, please log in again"))
		}

		userID, err := ctx.RedisClient.GetDel(c.UserContext(), refreshKeyPrefix+refreshToken).Result()
		if err == redis.Nil {
			ctx.Logger.Warn("Refresh token not found in Redis",
				zap.String("payload_id", refreshPayload.ID.String()),
				zap.String("email", refreshPayload.Email),
			)
			return utils.SendError(c, ctx.Logger, apperr.Unauthorized("session invalid, please log in again"))
		} else if err != nil {
			return utils.SendError(c, ctx.Logger, apperr.Storage(err))
		}

		if _, _, err := IssueSession(c, ctx, refreshPayload.Subject()); err != nil {
			ctx.Logger.Error("Could not rotate session", zap.String("user_id", userID), zap.Error(err))
			return utils.SendError(c, ctx.Logger, apperr.Storage(err))
		}

		c.Locals(userLocalsKey, refreshPayload)
		return c.Next()
	}
}

// IssueSession mints an access/refresh pair, stores the refresh token in Redis and sets both
// cookies. The tokens are also returned for clients that use the Authorization header.
func IssueSession(c *fiber.Ctx, ctx *AppContext, subject token.Subject) (string, string, error) {
	accessToken, err := ctx.PasetoMaker.CreateToken(subject, AccessTokenDuration)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := ctx.PasetoMaker.CreateToken(subject, RefreshTokenDuration)
	if err != nil {
		return "", "", err
	}

	err = ctx.RedisClient.Set(c.UserContext(), refreshKeyPrefix+refreshToken, subject.UserID.String(), RefreshTokenDuration).Err()
	if err != nil {
		return "", "", err
	}

	secure := !config.IsDevelopment()
	domain := config.GetEnv("COOKIE_DOMAIN")
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(AccessTokenDuration),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
		Path:     "/",
		Domain:   domain,
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(RefreshTokenDuration),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
		Path:     "/",
		Domain:   domain,
	})

	return accessToken, refreshToken, nil
}

func bearerOrCookie(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return c.Cookies("access_token")
}

// CurrentPrincipal returns the caller set by ProtectedRoute.
func CurrentPrincipal(c *fiber.Ctx) (models.Principal, bool) {
	payload, ok := c.Locals(userLocalsKey).(*token.Payload)
	if !ok || payload == nil {
		return models.Principal{}, false
	}
	return payload.Principal(), true
}

// SetPrincipal stores a caller directly. Used by handler tests that skip token verification.
func SetPrincipal(c *fiber.Ctx, p models.Principal) {
	c.Locals(userLocalsKey, &token.Payload{UserID: p.UserID, Email: p.Email, Role: p.Role})
}

// RequireRole rejects callers whose role is not listed. Must run after ProtectedRoute.
func RequireRole(logger *zap.Logger, roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			return utils.SendError(c, logger, apperr.Unauthorized("authentication required"))
		}
		for _, role := range roles {
			if principal.Role == role {
				return c.Next()
			}
		}
		return utils.SendError(c, logger, apperr.Forbidden("your role does not allow this action"))
	}
}

// RevokeSession drops the caller's refresh token from Redis and expires both cookies.
func RevokeSession(c *fiber.Ctx, ctx *AppContext) error {
	if refreshToken := c.Cookies("refresh_token"); refreshToken != "" {
		if err := ctx.RedisClient.Del(c.UserContext(), refreshKeyPrefix+refreshToken).Err(); err != nil {
			return err
		}
	}

	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			HTTPOnly: true,
			Secure:   !config.IsDevelopment(),
			SameSite: "Lax",
			Path:     "/",
			Domain:   config.GetEnv("COOKIE_DOMAIN"),
		})
	}
	return nil
}
