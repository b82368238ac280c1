package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daylog/internal/services"
)

var errInvalidEntryID = errors.New("invalid entry id")

// apiError writes the error envelope. code is a stable machine-readable value;
// message is its translation for the request language.
func (handler *Handler) apiError(c *fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": handler.i18n.Translate(handler.currentLanguage(c), "error."+code),
	})
}

func (handler *Handler) respondServiceError(c *fiber.Ctx, err error) error {
	status, code := serviceErrorStatus(err)
	if status >= fiber.StatusInternalServerError {
		handler.logger.Error("request failed", zapRequestFields(c, err)...)
	}
	return handler.apiError(c, status, code)
}

// serviceErrorStatus maps service sentinels to an HTTP status and error code.
func serviceErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidEntryDate):
		return fiber.StatusBadRequest, "invalid_date"
	case errors.Is(err, services.ErrInvalidTimeSlot):
		return fiber.StatusBadRequest, "invalid_time_slot"
	case errors.Is(err, services.ErrEntryTextRequired):
		return fiber.StatusBadRequest, "entry_text_required"
	case errors.Is(err, services.ErrNoFilledRows):
		return fiber.StatusBadRequest, "no_filled_rows"
	case errors.Is(err, services.ErrDayFull):
		return fiber.StatusConflict, "day_full"
	case errors.Is(err, services.ErrTooManyRows):
		return fiber.StatusConflict, "too_many_rows"
	case errors.Is(err, services.ErrSlotTaken):
		return fiber.StatusConflict, "slot_taken"
	case errors.Is(err, services.ErrEntryNotFound):
		return fiber.StatusNotFound, "entry_not_found"
	case errors.Is(err, services.ErrSessionTransition):
		return fiber.StatusConflict, "session_transition"
	case errors.Is(err, services.ErrInvalidReportOrder):
		return fiber.StatusBadRequest, "invalid_order"
	case errors.Is(err, services.ErrReportFromDateInvalid):
		return fiber.StatusBadRequest, "invalid_from_date"
	case errors.Is(err, services.ErrReportToDateInvalid):
		return fiber.StatusBadRequest, "invalid_to_date"
	case errors.Is(err, services.ErrReportRangeInvalid):
		return fiber.StatusBadRequest, "invalid_range"
	case errors.Is(err, services.ErrUsernameRequired):
		return fiber.StatusBadRequest, "username_required"
	case errors.Is(err, services.ErrUsernameTooLong):
		return fiber.StatusBadRequest, "username_too_long"
	case errors.Is(err, services.ErrPasswordRequired):
		return fiber.StatusBadRequest, "password_required"
	case errors.Is(err, services.ErrPasswordMismatch):
		return fiber.StatusBadRequest, "password_mismatch"
	case errors.Is(err, services.ErrWeakPassword):
		return fiber.StatusBadRequest, "weak_password"
	case errors.Is(err, services.ErrNewPasswordMustDiffer):
		return fiber.StatusBadRequest, "new_password_must_differ"
	case errors.Is(err, services.ErrUserNotFound):
		return fiber.StatusUnauthorized, "user_not_found"
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, services.ErrCurrentPasswordInvalid):
		return fiber.StatusBadRequest, "current_password_invalid"
	case errors.Is(err, errInvalidEntryID):
		return fiber.StatusBadRequest, "invalid_id"
	case errors.Is(err, services.ErrAuthLookupFailed), errors.Is(err, services.ErrEntryWriteFailed):
		return fiber.StatusServiceUnavailable, "storage_unavailable"
	default:
		return fiber.StatusInternalServerError, "internal"
	}
}

func parseEntryID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Params("id")), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidEntryID
	}
	return uint(id), nil
}

func setAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
}
