package middleware

import (
	"errors"

	"classaction/cmd/internal/domain/policy"
	"classaction/cmd/internal/utils"
	"classaction/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type TokenVerifier interface {
	Verify(token string) (*utils.TokenData, error)
}

type AdminMiddlewareConfig struct {
	Verifier TokenVerifier
	Policy   *policy.AdminPolicy
}

// NewAdminMiddleware creates the handler with dependencies injected
func NewAdminMiddleware(cfg *AdminMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData, err := cfg.Verifier.Verify(utils.BearerToken(c))
			if errors.Is(err, utils.ErrMissingToken) {
				return c.JSON(apierror.UnauthorizedError.Code(), apierror.UnauthorizedError)
			}
			if err != nil {
				log.Debugf("rejected admin token from %s: %v", c.RealIP(), err)
				return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
			}

			if apierr := cfg.Policy.CanAdminister(tokenData); apierr != nil {
				return c.JSON(apierr.Code(), apierr)
			}

			c.Set(utils.AdminContextKey, tokenData)
			return next(c)
		}
	}
}
