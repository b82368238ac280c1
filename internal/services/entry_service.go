package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/daylog/internal/models"
	"go.uber.org/zap"
)

var (
	ErrInvalidEntryDate  = errors.New("invalid entry date")
	ErrInvalidTimeSlot   = errors.New("invalid time slot")
	ErrEntryTextRequired = errors.New("entry description and result are required")
	ErrEntryNotFound     = errors.New("entry not found")
	ErrEntryWriteFailed  = errors.New("entry write failed")
)

type EntryStore interface {
	ListSlotsByOwnerAndDate(owner string, day string) ([]string, error)
	ListByOwnerRange(owner string, from string, to string) ([]models.ActivityEntry, error)
	FindByOwnerAndID(owner string, id uint) (models.ActivityEntry, bool, error)
	CreateBatch(entries []models.ActivityEntry) error
	Save(entry *models.ActivityEntry) error
	DeleteByOwnerAndID(owner string, id uint) (bool, error)
}

// EntryUpdateInput carries the fields of an edit form. Nil fields keep the
// stored value.
type EntryUpdateInput struct {
	Date        *string `json:"date"`
	TimeSlot    *string `json:"time_slot"`
	Description *string `json:"description"`
	Result      *string `json:"result"`
}

type EntryService struct {
	entries EntryStore
	policy  SlotPolicy
	logger  *zap.Logger
}

func NewEntryService(entries EntryStore, policy SlotPolicy, logger *zap.Logger) *EntryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy == "" {
		policy = SlotPolicySequential
	}
	return &EntryService{entries: entries, policy: policy, logger: logger}
}

func (service *EntryService) Policy() SlotPolicy {
	return service.policy
}

func NormalizeEntryDate(raw string) (string, error) {
	parsed, err := time.Parse(models.DayLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidEntryDate
	}
	return parsed.Format(models.DayLayout), nil
}

func (service *EntryService) Allocate(owner string, rawDate string) (SlotAllocation, error) {
	day, err := NormalizeEntryDate(rawDate)
	if err != nil {
		return SlotAllocation{}, err
	}
	return AllocateSlots(day, service.existingSlots(owner, day), service.policy), nil
}

// Submit stores every filled row of a day form, each in the next free window.
func (service *EntryService) Submit(owner string, rawDate string, rows []EntryRowInput) ([]models.ActivityEntry, error) {
	day, err := NormalizeEntryDate(rawDate)
	if err != nil {
		return nil, err
	}

	allocation := AllocateSlots(day, service.existingSlots(owner, day), service.policy)
	assignments, err := AssignSlots(allocation, rows)
	if err != nil {
		return nil, err
	}

	entries := make([]models.ActivityEntry, 0, len(assignments))
	for _, assignment := range assignments {
		entries = append(entries, models.ActivityEntry{
			Owner:       owner,
			Date:        day,
			TimeSlot:    assignment.TimeSlot,
			Description: assignment.Row.Description,
			Result:      assignment.Row.Result,
		})
	}

	if err := service.entries.CreateBatch(entries); err != nil {
		if errors.Is(err, models.ErrDuplicateRecord) {
			return nil, ErrSlotTaken
		}
		service.logger.Error("store entries", zap.String("owner", owner), zap.String("date", day), zap.Error(err))
		return nil, ErrEntryWriteFailed
	}
	return entries, nil
}

func (service *EntryService) Get(owner string, id uint) (models.ActivityEntry, error) {
	entry, found, err := service.entries.FindByOwnerAndID(owner, id)
	if err != nil {
		service.logger.Warn("load entry", zap.String("owner", owner), zap.Uint("id", id), zap.Error(err))
		return models.ActivityEntry{}, ErrEntryNotFound
	}
	if !found {
		return models.ActivityEntry{}, ErrEntryNotFound
	}
	return entry, nil
}

// Update edits one entry in place. The allocator is not consulted: the entry
// keeps its window unless the input names another one.
func (service *EntryService) Update(owner string, id uint, input EntryUpdateInput) (models.ActivityEntry, error) {
	entry, err := service.Get(owner, id)
	if err != nil {
		return models.ActivityEntry{}, err
	}

	if input.Date != nil {
		day, err := NormalizeEntryDate(*input.Date)
		if err != nil {
			return models.ActivityEntry{}, err
		}
		entry.Date = day
	}
	if input.TimeSlot != nil {
		slot := strings.TrimSpace(*input.TimeSlot)
		if !models.IsValidTimeSlot(slot) {
			return models.ActivityEntry{}, ErrInvalidTimeSlot
		}
		entry.TimeSlot = slot
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return models.ActivityEntry{}, ErrEntryTextRequired
		}
		entry.Description = description
	}
	if input.Result != nil {
		result := strings.TrimSpace(*input.Result)
		if result == "" {
			return models.ActivityEntry{}, ErrEntryTextRequired
		}
		entry.Result = result
	}

	if err := service.entries.Save(&entry); err != nil {
		if errors.Is(err, models.ErrDuplicateRecord) {
			return models.ActivityEntry{}, ErrSlotTaken
		}
		service.logger.Error("update entry", zap.String("owner", owner), zap.Uint("id", id), zap.Error(err))
		return models.ActivityEntry{}, ErrEntryWriteFailed
	}
	return entry, nil
}

func (service *EntryService) Delete(owner string, id uint) error {
	deleted, err := service.entries.DeleteByOwnerAndID(owner, id)
	if err != nil {
		service.logger.Error("delete entry", zap.String("owner", owner), zap.Uint("id", id), zap.Error(err))
		return ErrEntryWriteFailed
	}
	if !deleted {
		return ErrEntryNotFound
	}
	return nil
}

// Report groups the entries of owner within the optional day bounds. A failed
// read yields an empty report.
func (service *EntryService) Report(owner string, from *time.Time, to *time.Time, order ReportOrder) []ReportGroup {
	fromDay := optionalDay(from)
	toDay := optionalDay(to)

	entries, err := service.entries.ListByOwnerRange(owner, fromDay, toDay)
	if err != nil {
		service.logger.Warn("read entries failed, serving empty report",
			zap.String("owner", owner),
			zap.String("from", fromDay),
			zap.String("to", toDay),
			zap.Error(err),
		)
		return []ReportGroup{}
	}
	return BuildReport(entries, owner, fromDay, toDay, order)
}

func (service *EntryService) existingSlots(owner string, day string) []string {
	slots, err := service.entries.ListSlotsByOwnerAndDate(owner, day)
	if err != nil {
		service.logger.Warn("read day slots failed, treating day as empty",
			zap.String("owner", owner),
			zap.String("date", day),
			zap.Error(err),
		)
		return []string{}
	}
	return slots
}

func optionalDay(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(models.DayLayout)
}
