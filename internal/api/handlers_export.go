package api

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daylog/internal/i18n"
	"github.com/terraincognita07/daylog/internal/models"
	"github.com/terraincognita07/daylog/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportLabelsFor localizes the sheet name, headers, file prefix and date
// column of an export.
func ExportLabelsFor(manager *i18n.Manager, language string) services.ExportLabels {
	language = manager.NormalizeLanguage(language)
	return services.ExportLabels{
		SheetName: manager.Translate(language, "export.sheet_name"),
		Headers: [5]string{
			manager.Translate(language, "export.header.id"),
			manager.Translate(language, "export.header.date"),
			manager.Translate(language, "export.header.time"),
			manager.Translate(language, "export.header.description"),
			manager.Translate(language, "export.header.result"),
		},
		FilePrefix: manager.Translate(language, "export.file_prefix"),
		FormatDate: func(raw string) string { return i18n.FormatLongDate(language, raw) },
	}
}

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	user, from, to, err := handler.exportUserAndRange(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	summary := handler.exportService.BuildSummary(user.Username, &from, &to)
	return c.JSON(fiber.Map{
		"total_entries": summary.TotalEntries,
		"total_days":    summary.TotalDays,
		"has_data":      summary.HasData,
		"date_from":     summary.DateFrom,
		"date_to":       summary.DateTo,
		"range_from":    from.Format(models.DayLayout),
		"range_to":      to.Format(models.DayLayout),
	})
}

func (handler *Handler) ExportXLSX(c *fiber.Ctx) error {
	user, from, to, err := handler.exportUserAndRange(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	labels := ExportLabelsFor(handler.i18n, handler.currentLanguage(c))
	groups := handler.exportService.LoadGroups(user.Username, &from, &to)

	var output bytes.Buffer
	if err := services.WriteExportWorkbook(&output, groups, labels); err != nil {
		return handler.respondServiceError(c, err)
	}

	setAttachmentHeaders(c, xlsxContentType, services.BuildExportFilename(labels.FilePrefix, &from, &to, "xlsx"))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	user, from, to, err := handler.exportUserAndRange(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	labels := ExportLabelsFor(handler.i18n, handler.currentLanguage(c))
	groups := handler.exportService.LoadGroups(user.Username, &from, &to)

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.WriteAll(services.BuildExportCSVRows(groups, labels)); err != nil {
		return handler.respondServiceError(c, err)
	}

	setAttachmentHeaders(c, "text/csv; charset=utf-8", services.BuildExportFilename(labels.FilePrefix, &from, &to, "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) exportUserAndRange(c *fiber.Ctx) (*models.User, time.Time, time.Time, error) {
	user, _ := currentUser(c)
	from, to, err := services.ResolveReportRange(c.Query("from"), c.Query("to"), handler.now(), handler.location)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	return user, from, to, nil
}
