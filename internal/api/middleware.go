package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daylog/internal/models"
)

const (
	authCookieName         = "daylog_auth"
	languageCookieName     = "daylog_lang"
	entrySessionCookieName = "daylog_entry_session"
	CSRFCookieName         = "daylog_csrf"
	contextUserKey         = "current_user"
	contextLanguageKey     = "current_language"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok && user != nil
}

func (handler *Handler) currentLanguage(c *fiber.Ctx) string {
	if language, ok := c.Locals(contextLanguageKey).(string); ok && language != "" {
		return language
	}
	return handler.i18n.DefaultLanguage()
}
