package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/daylog/internal/models"
)

var (
	ErrReportFromDateInvalid = errors.New("report invalid from date")
	ErrReportToDateInvalid   = errors.New("report invalid to date")
	ErrReportRangeInvalid    = errors.New("report invalid range")
)

// ParseReportRange reads optional YYYY-MM-DD bounds. A blank bound stays nil.
func ParseReportRange(rawFrom string, rawTo string, location *time.Location) (*time.Time, *time.Time, error) {
	from, err := parseOptionalDay(rawFrom, location)
	if err != nil {
		return nil, nil, ErrReportFromDateInvalid
	}
	to, err := parseOptionalDay(rawTo, location)
	if err != nil {
		return nil, nil, ErrReportToDateInvalid
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, ErrReportRangeInvalid
	}
	return from, to, nil
}

// DefaultReportRange is 1 January of the current year through today.
func DefaultReportRange(now time.Time, location *time.Location) (time.Time, time.Time) {
	today := DateAtLocation(now, location)
	return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location()), today
}

// ResolveReportRange fills blank bounds from DefaultReportRange.
func ResolveReportRange(rawFrom string, rawTo string, now time.Time, location *time.Location) (time.Time, time.Time, error) {
	from, to, err := ParseReportRange(rawFrom, rawTo, location)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	defaultFrom, defaultTo := DefaultReportRange(now, location)
	if from == nil {
		from = &defaultFrom
	}
	if to == nil {
		to = &defaultTo
	}
	if to.Before(*from) {
		return time.Time{}, time.Time{}, ErrReportRangeInvalid
	}
	return *from, *to, nil
}

func parseOptionalDay(raw string, location *time.Location) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation(models.DayLayout, trimmed, location)
	if err != nil {
		return nil, err
	}
	normalized := DateAtLocation(parsed, location)
	return &normalized, nil
}
