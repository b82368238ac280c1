package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daylog/internal/services"
)

// entrySessionCookiePayload binds the sealed session to the account that
// created it.
type entrySessionCookiePayload struct {
	Username string                `json:"usr"`
	Session  services.EntrySession `json:"session"`
}

func (handler *Handler) loadEntrySession(c *fiber.Ctx, username string) services.EntrySession {
	raw := strings.TrimSpace(c.Cookies(entrySessionCookieName))
	if raw == "" {
		return services.IdleEntrySession()
	}

	payload := entrySessionCookiePayload{}
	if err := handler.cookieCodec.openJSON(entrySessionCookieName, raw, &payload); err != nil {
		return services.IdleEntrySession()
	}
	if payload.Username != username {
		return services.IdleEntrySession()
	}
	return payload.Session.Normalize()
}

func (handler *Handler) storeEntrySession(c *fiber.Ctx, username string, session services.EntrySession) error {
	session = session.Normalize()
	if session.State == services.EntrySessionIdle {
		handler.clearEntrySession(c)
		return nil
	}

	encoded, err := handler.cookieCodec.sealJSON(entrySessionCookieName, entrySessionCookiePayload{
		Username: username,
		Session:  session,
	})
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     entrySessionCookieName,
		Value:    encoded,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
	})
	return nil
}

func (handler *Handler) clearEntrySession(c *fiber.Ctx) {
	if c.Cookies(entrySessionCookieName) == "" {
		return
	}
	handler.expireCookie(c, entrySessionCookieName)
}
