package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/daylog/internal/models"
)

var (
	ErrNoFilledRows      = errors.New("no filled rows")
	ErrDayFull           = errors.New("day full")
	ErrTooManyRows       = errors.New("more rows than remaining slots")
	ErrSlotTaken         = errors.New("slot taken")
	ErrInvalidSlotPolicy = errors.New("invalid slot policy")
)

type SlotPolicy string

const (
	// SlotPolicySequential hands out TimeSlots[n] where n is the number of
	// entries already stored for the day, even when an earlier window was
	// freed by a deletion.
	SlotPolicySequential SlotPolicy = "sequential"
	// SlotPolicyFirstFree hands out the lowest windows not used that day.
	SlotPolicyFirstFree SlotPolicy = "first_free"
)

func ParseSlotPolicy(raw string) (SlotPolicy, error) {
	switch SlotPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SlotPolicySequential:
		return SlotPolicySequential, nil
	case SlotPolicyFirstFree:
		return SlotPolicyFirstFree, nil
	default:
		return "", ErrInvalidSlotPolicy
	}
}

type SlotAllocation struct {
	Date      string   `json:"date"`
	Existing  []string `json:"existing"`
	Remaining int      `json:"remaining"`
	Available []string `json:"available"`
	Next      string   `json:"next,omitempty"`
	Full      bool     `json:"full"`
}

type EntryRowInput struct {
	Description string `json:"description"`
	Result      string `json:"result"`
}

type SlotAssignment struct {
	TimeSlot string
	Row      EntryRowInput
}

// AllocateSlots derives the free windows of one day from the windows already
// stored for it.
func AllocateSlots(day string, existing []string, policy SlotPolicy) SlotAllocation {
	allocation := SlotAllocation{
		Date:     day,
		Existing: append([]string{}, existing...),
	}

	switch policy {
	case SlotPolicyFirstFree:
		used := make(map[string]struct{}, len(existing))
		for _, slot := range existing {
			used[slot] = struct{}{}
		}
		allocation.Available = make([]string, 0, models.SlotsPerDay)
		for _, slot := range models.TimeSlots {
			if _, taken := used[slot]; !taken {
				allocation.Available = append(allocation.Available, slot)
			}
		}
	default:
		count := len(existing)
		if count > models.SlotsPerDay {
			count = models.SlotsPerDay
		}
		allocation.Available = append([]string{}, models.TimeSlots[count:]...)
	}

	allocation.Remaining = len(allocation.Available)
	allocation.Full = allocation.Remaining == 0
	if !allocation.Full {
		allocation.Next = allocation.Available[0]
	}
	return allocation
}

// FilledRows drops rows whose description or result is blank.
func FilledRows(rows []EntryRowInput) []EntryRowInput {
	filled := make([]EntryRowInput, 0, len(rows))
	for _, row := range rows {
		description := strings.TrimSpace(row.Description)
		result := strings.TrimSpace(row.Result)
		if description == "" || result == "" {
			continue
		}
		filled = append(filled, EntryRowInput{Description: description, Result: result})
	}
	return filled
}

// AssignSlots pairs every filled row with the next free window in order.
// Nothing is assigned when the rows do not fit.
func AssignSlots(allocation SlotAllocation, rows []EntryRowInput) ([]SlotAssignment, error) {
	if allocation.Full {
		return nil, ErrDayFull
	}

	filled := FilledRows(rows)
	if len(filled) == 0 {
		return nil, ErrNoFilledRows
	}
	if len(filled) > allocation.Remaining {
		return nil, ErrTooManyRows
	}

	assignments := make([]SlotAssignment, 0, len(filled))
	for index, row := range filled {
		assignments = append(assignments, SlotAssignment{
			TimeSlot: allocation.Available[index],
			Row:      row,
		})
	}
	return assignments, nil
}
