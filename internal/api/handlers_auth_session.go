package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daylog/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	created, err := handler.authService.Register(credentials.Username, credentials.Password, credentials.ConfirmPassword)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	if !created {
		return handler.apiError(c, fiber.StatusConflict, "username_taken")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":       true,
		"username": services.NormalizeUsername(credentials.Username),
		"message":  handler.i18n.Translate(handler.currentLanguage(c), "auth.registered"),
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	now := handler.now()
	limiterKey := loginLimiterKey(c, credentials.Username)
	if handler.loginLimiter.blocked(limiterKey, now) {
		return handler.apiError(c, fiber.StatusTooManyRequests, "too_many_attempts")
	}

	user, err := handler.authService.Authenticate(credentials.Username, credentials.Password)
	if err != nil {
		handler.loginLimiter.addFailure(limiterKey, now)
		return handler.respondServiceError(c, err)
	}
	handler.loginLimiter.reset(limiterKey)

	if err := handler.setAuthCookie(c, &user, credentials.RememberMe); err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.clearEntrySession(c)

	messageKey := "auth.logged_in"
	if user.MustChangePassword {
		messageKey = "auth.must_change_password"
	}
	return c.JSON(fiber.Map{
		"ok":                   true,
		"username":             user.Username,
		"must_change_password": user.MustChangePassword,
		"message":              handler.i18n.Translate(handler.currentLanguage(c), messageKey),
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	handler.clearEntrySession(c)
	return c.JSON(fiber.Map{
		"ok":      true,
		"message": handler.i18n.Translate(handler.currentLanguage(c), "auth.logged_out"),
	})
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	input := changePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	if err := handler.authService.ChangePassword(user.Username, input.CurrentPassword, input.NewPassword, input.ConfirmPassword); err != nil {
		return handler.respondServiceError(c, err)
	}

	user.MustChangePassword = false
	if err := handler.setAuthCookie(c, user, false); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"ok":      true,
		"message": handler.i18n.Translate(handler.currentLanguage(c), "auth.password_changed"),
	})
}
