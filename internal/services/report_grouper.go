package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/terraincognita07/daylog/internal/models"
)

var ErrInvalidReportOrder = errors.New("invalid report order")

type ReportOrder string

const (
	ReportOrderAsc  ReportOrder = "asc"
	ReportOrderDesc ReportOrder = "desc"
)

// ParseReportOrder accepts "asc" or "desc". Blank means the screen default,
// newest day first.
func ParseReportOrder(raw string) (ReportOrder, error) {
	switch ReportOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ReportOrderDesc:
		return ReportOrderDesc, nil
	case ReportOrderAsc:
		return ReportOrderAsc, nil
	default:
		return "", ErrInvalidReportOrder
	}
}

type ReportGroup struct {
	Date    string                 `json:"date"`
	Entries []models.ActivityEntry `json:"entries"`
}

// ReportRow is one line of a flattened report. DateRowSpan is the number of
// rows the date cell covers on the first row of a group and zero on the rest.
type ReportRow struct {
	Entry       models.ActivityEntry
	DateRowSpan int
}

// BuildReport keeps the entries of owner dated within [from, to] and groups
// them per day. Empty bounds are open. Days follow order; entries inside a
// day follow window order, then id.
func BuildReport(entries []models.ActivityEntry, owner string, from string, to string, order ReportOrder) []ReportGroup {
	byDate := make(map[string][]models.ActivityEntry)
	for _, entry := range entries {
		if entry.Owner != owner {
			continue
		}
		if from != "" && entry.Date < from {
			continue
		}
		if to != "" && entry.Date > to {
			continue
		}
		byDate[entry.Date] = append(byDate[entry.Date], entry)
	}

	groups := make([]ReportGroup, 0, len(byDate))
	for date, dayEntries := range byDate {
		sort.SliceStable(dayEntries, func(i, j int) bool {
			left := models.TimeSlotIndex(dayEntries[i].TimeSlot)
			right := models.TimeSlotIndex(dayEntries[j].TimeSlot)
			if left != right {
				return left < right
			}
			return dayEntries[i].ID < dayEntries[j].ID
		})
		groups = append(groups, ReportGroup{Date: date, Entries: dayEntries})
	}

	sort.Slice(groups, func(i, j int) bool {
		if order == ReportOrderAsc {
			return groups[i].Date < groups[j].Date
		}
		return groups[i].Date > groups[j].Date
	})
	return groups
}

func FlattenReport(groups []ReportGroup) []ReportRow {
	rows := make([]ReportRow, 0)
	for _, group := range groups {
		for index, entry := range group.Entries {
			span := 0
			if index == 0 {
				span = len(group.Entries)
			}
			rows = append(rows, ReportRow{Entry: entry, DateRowSpan: span})
		}
	}
	return rows
}

func CountReportEntries(groups []ReportGroup) int {
	total := 0
	for _, group := range groups {
		total += len(group.Entries)
	}
	return total
}
