package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daylog/internal/services"
)

// passwordChangePaths stay reachable while an account still carries a
// default or operator-set password.
var passwordChangePaths = map[string]struct{}{
	"/api/auth/password": {},
	"/api/auth/logout":   {},
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if errors.Is(err, services.ErrAuthLookupFailed) {
		return handler.respondServiceError(c, err)
	}
	if err != nil {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextUserKey, user)
	if user.MustChangePassword {
		if _, allowed := passwordChangePaths[c.Path()]; !allowed {
			return handler.apiError(c, fiber.StatusForbidden, "password_change_required")
		}
	}
	return c.Next()
}
