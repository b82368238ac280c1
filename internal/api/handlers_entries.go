package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daylog/internal/i18n"
	"github.com/terraincognita07/daylog/internal/models"
	"github.com/terraincognita07/daylog/internal/services"
)

type reportGroupView struct {
	Date    string                 `json:"date"`
	Label   string                 `json:"label"`
	Entries []models.ActivityEntry `json:"entries"`
}

// Slots reports which windows of a day are still free. A blank date means
// today in the configured timezone.
func (handler *Handler) Slots(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	allocation, err := handler.entryService.Allocate(user.Username, handler.dateOrToday(c.Query("date")))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(allocation)
}

func (handler *Handler) CreateEntries(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	input := submitEntriesInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	day := handler.dateOrToday(input.Date)
	entries, err := handler.entryService.Submit(user.Username, day, input.Rows)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	allocation, err := handler.entryService.Allocate(user.Username, day)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":         true,
		"entries":    entries,
		"allocation": allocation,
		"message":    handler.i18n.Translatef(handler.currentLanguage(c), "entries.saved", len(entries)),
	})
}

// ListEntries returns the grouped report for the current user. Missing bounds
// default to 1 January of this year through today; days are newest first
// unless order=asc.
func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	order, err := services.ParseReportOrder(c.Query("order"))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	from, to, err := services.ResolveReportRange(c.Query("from"), c.Query("to"), handler.now(), handler.location)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	groups := handler.entryService.Report(user.Username, &from, &to, order)
	return c.JSON(fiber.Map{
		"from":          from.Format(models.DayLayout),
		"to":            to.Format(models.DayLayout),
		"order":         order,
		"total_entries": services.CountReportEntries(groups),
		"groups":        handler.reportGroupViews(c, groups),
	})
}

func (handler *Handler) GetEntry(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	id, err := parseEntryID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	entry, err := handler.entryService.Get(user.Username, id)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(entry)
}

func (handler *Handler) UpdateEntry(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	id, err := parseEntryID(c)
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
	return c.JSON(fiber.Map{
		"ok":      true,
		"entry":   entry,
		"message": handler.i18n.Translate(handler.currentLanguage(c), "entries.updated"),
	})
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	id, err := parseEntryID(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := handler.entryService.Delete(user.Username, id); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"ok":      true,
		"message": handler.i18n.Translate(handler.currentLanguage(c), "entries.deleted"),
	})
}

func (handler *Handler) dateOrToday(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return services.Today(handler.now(), handler.location)
	}
	return raw
}

func (handler *Handler) reportGroupViews(c *fiber.Ctx, groups []services.ReportGroup) []reportGroupView {
	language := handler.currentLanguage(c)
	views := make([]reportGroupView, 0, len(groups))
	for _, group := range groups {
		views = append(views, reportGroupView{
			Date:    group.Date,
			Label:   i18n.FormatLongDate(language, group.Date),
			Entries: group.Entries,
		})
	}
	return views
}
