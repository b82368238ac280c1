package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daylog/internal/models"
	"github.com/terraincognita07/daylog/internal/services"
)

type entrySessionView struct {
	services.EntrySession
	Entry *models.ActivityEntry `json:"entry,omitempty"`
}

// GetSession reports the edit or delete flow in progress. A session pointing
// at an entry that no longer exists is reset to idle.
func (handler *Handler) GetSession(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	session := handler.loadEntrySession(c, user.Username)
	if session.State == services.EntrySessionIdle {
		return c.JSON(entrySessionView{EntrySession: session})
	}

	entry, err := handler.entryService.Get(user.Username, session.EntryID)
	if err != nil {
		handler.clearEntrySession(c)
		return c.JSON(entrySessionView{EntrySession: services.IdleEntrySession()})
	}
	return c.JSON(entrySessionView{EntrySession: session, Entry: &entry})
}

func (handler *Handler) BeginEdit(c *fiber.Ctx) error {
	return handler.beginEntryFlow(c, services.EntrySession.BeginEdit)
}

func (handler *Handler) RequestDelete(c *fiber.Ctx) error {
	return handler.beginEntryFlow(c, services.EntrySession.RequestDelete)
}

func (handler *Handler) beginEntryFlow(c *fiber.Ctx, transition func(services.EntrySession, uint) (services.EntrySession, error)) error {
	user, _ := currentUser(c)
	id, err := parseEntryID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	entry, err := handler.entryService.Get(user.Username, id)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	next, err := transition(handler.loadEntrySession(c, user.Username), id)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := handler.storeEntrySession(c, user.Username, next); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(entrySessionView{EntrySession: next, Entry: &entry})
}

// SaveEdit applies the edit form to the entry being edited. The session stays
// in Editing when the update is rejected so the form can be corrected.
func (handler *Handler) SaveEdit(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	next, id, err := handler.loadEntrySession(c, user.Username).FinishEdit()
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	input := services.EntryUpdateInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	entry, err := handler.entryService.Update(user.Username, id, input)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := handler.storeEntrySession(c, user.Username, next); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"ok":      true,
		"entry":   entry,
		"session": next,
		"message": handler.i18n.Translate(handler.currentLanguage(c), "entries.updated"),
	})
}

func (handler *Handler) CancelEdit(c *fiber.Ctx) error {
	return handler.leaveEntryFlow(c, services.EntrySession.CancelEdit, "entries.edit_cancelled")
}

func (handler *Handler) CancelDelete(c *fiber.Ctx) error {
	return handler.leaveEntryFlow(c, services.EntrySession.CancelDelete, "entries.delete_cancelled")
}

func (handler *Handler) leaveEntryFlow(c *fiber.Ctx, transition func(services.EntrySession) (services.EntrySession, error), messageKey string) error {
	user, _ := currentUser(c)
	next, err := transition(handler.loadEntrySession(c, user.Username))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := handler.storeEntrySession(c, user.Username, next); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"ok":      true,
		"session": next,
		"message": handler.i18n.Translate(handler.currentLanguage(c), messageKey),
	})
}

// ConfirmDelete removes the entry awaiting confirmation. The session returns
// to idle even when the entry was already gone.
func (handler *Handler) ConfirmDelete(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	next, id, err := handler.loadEntrySession(c, user.Username).ConfirmDelete()
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := handler.storeEntrySession(c, user.Username, next); err != nil {
		return handler.respondServiceError(c, err)
	}

	if err := handler.entryService.Delete(user.Username, id); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"ok":      true,
		"session": next,
		"message": handler.i18n.Translate(handler.currentLanguage(c), "entries.deleted"),
	})
}
