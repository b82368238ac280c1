package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/daylog/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func filledRow(description string) EntryRowInput {
	return EntryRowInput{Description: description, Result: "selesai"}
}

func stringPointer(value string) *string {
	return &value
}

func TestEntryServiceSubmitAssignsSequentialWindows(t *testing.T) {
	store := newMemoryEntryStore()
	service := NewEntryService(store, SlotPolicySequential, nil)

	created, err := service.Submit("A", " 2025-01-10 ", []EntryRowInput{filledRow("a"), {Description: "skip"}, filledRow("b")})
	require.NoError(t, err)
	require.Len(t, created, 2)
	require.Equal(t, models.TimeSlots[0], created[0].TimeSlot)
	require.Equal(t, models.TimeSlots[1], created[1].TimeSlot)
	require.Equal(t, "2025-01-10", created[0].Date)
	require.NotZero(t, created[1].ID)

	allocation, err := service.Allocate("A", "2025-01-10")
	require.NoError(t, err)
	require.Equal(t, 2, allocation.Remaining)
	require.Equal(t, models.TimeSlots[2], allocation.Next)
}

func TestEntryServiceRejectsFifthEntry(t *testing.T) {
	store := newMemoryEntryStore()
	service := NewEntryService(store, SlotPolicySequential, nil)

	_, err := service.Submit("A", "2025-01-10", []EntryRowInput{filledRow("1"), filledRow("2"), filledRow("3"), filledRow("4")})
	require.NoError(t, err)

	_, err = service.Submit("A", "2025-01-10", []EntryRowInput{filledRow("5")})
	require.ErrorIs(t, err, ErrDayFull)
	require.Len(t, store.entries, 4)

	_, err = service.Submit("B", "2025-01-10", []EntryRowInput{filledRow("other owner")})
	require.NoError(t, err)
}

func TestEntryServiceRejectsOverflowingSubmissionWithoutWriting(t *testing.T) {
	store := newMemoryEntryStore()
	service := NewEntryService(store, SlotPolicySequential, nil)

	_, err := service.Submit("A", "2025-01-10", []EntryRowInput{filledRow("1"), filledRow("2"), filledRow("3")})
	require.NoError(t, err)

	_, err = service.Submit("A", "2025-01-10", []EntryRowInput{filledRow("4"), filledRow("5")})
	require.ErrorIs(t, err, ErrTooManyRows)
	require.Len(t, store.entries, 3)
}

func TestEntryServiceValidatesSubmission(t *testing.T) {
	service := NewEntryService(newMemoryEntryStore(), SlotPolicySequential, nil)

	_, err := service.Submit("A", "10-01-2025", []EntryRowInput{filledRow("a")})
	require.ErrorIs(t, err, ErrInvalidEntryDate)

	_, err = service.Submit("A", "2025-01-10", []EntryRowInput{{Description: "only"}, {Result: "half"}})
	require.ErrorIs(t, err, ErrNoFilledRows)
}

// A surviving first window leaves a count of one, so the next entry gets
// window two even though windows two and four were used and freed.
func TestEntryServiceCountBasedAllocationAfterDeletion(t *testing.T) {
	store := newMemoryEntryStore(
		models.ActivityEntry{ID: 1, Owner: "A", Date: "2025-01-10", TimeSlot: models.TimeSlots[0], Description: "1", Result: "r"},
		models.ActivityEntry{ID: 2, Owner: "A", Date: "2025-01-10", TimeSlot: models.TimeSlots[1], Description: "2", Result: "r"},
		models.ActivityEntry{ID: 3, Owner: "A", Date: "2025-01-10", TimeSlot: models.TimeSlots[3], Description: "4", Result: "r"},
	)
	service := NewEntryService(store, SlotPolicySequential, nil)

	require.NoError(t, service.Delete("A", 2))
	require.NoError(t, service.Delete("A", 3))

	created, err := service.Submit("A", "2025-01-10", []EntryRowInput{filledRow("new")})
	require.NoError(t, err)
	require.Equal(t, models.TimeSlots[1], created[0].TimeSlot)
}

func TestEntryServiceCountBasedCollision(t *testing.T) {
	seed := func() []models.ActivityEntry {
		return []models.ActivityEntry{
			{ID: 1, Owner: "A", Date: "2025-01-10", TimeSlot: models.TimeSlots[0], Description: "1", Result: "r"},
			{ID: 2, Owner: "A", Date: "2025-01-10", TimeSlot: models.TimeSlots[2], Description: "3", Result: "r"},
		}
	}

	t.Run("guarded store reports slot taken", func(t *testing.T) {
		store := newMemoryEntryStore(seed()...)
		service := NewEntryService(store, SlotPolicySequential, nil)

		_, err := service.Submit("A", "2025-01-10", []EntryRowInput{filledRow("new")})
		require.ErrorIs(t, err, ErrSlotTaken)
		require.Len(t, store.entries, 2)
	})

	t.Run("unguarded store duplicates the window", func(t *testing.T) {
		store := newMemoryEntryStore(seed()...)
		store.uniqueSlots = false
		service := NewEntryService(store, SlotPolicySequential, nil)

		created, err := service.Submit("A", "2025-01-10", []EntryRowInput{filledRow("new")})
		require.NoError(t, err)
		require.Equal(t, models.TimeSlots[2], created[0].TimeSlot)
	})

	t.Run("first free policy fills the gap", func(t *testing.T) {
		store := newMemoryEntryStore(seed()...)
		service := NewEntryService(store, SlotPolicyFirstFree, nil)

		created, err := service.Submit("A", "2025-01-10", []EntryRowInput{filledRow("new"), filledRow("newer")})
		require.NoError(t, err)
		require.Equal(t, models.TimeSlots[1], created[0].TimeSlot)
		require.Equal(t, models.TimeSlots[3], created[1].TimeSlot)
	})
}

func TestEntryServiceUpdateKeepsUntouchedFields(t *testing.T) {
	store := newMemoryEntryStore()
	service := NewEntryService(store, SlotPolicySequential, nil)

	created, err := service.Submit("A", "2025-01-10", []EntryRowInput{{Description: "X", Result: "Y"}})
	require.NoError(t, err)

	updated, err := service.Update("A", created[0].ID, EntryUpdateInput{Description: stringPointer("X2")})
	require.NoError(t, err)
	require.Equal(t, "X2", updated.Description)
	require.Equal(t, "2025-01-10", updated.Date)
	require.Equal(t, models.TimeSlots[0], updated.TimeSlot)
	require.Equal(t, "Y", updated.Result)

	stored, err := service.Get("A", created[0].ID)
	require.NoError(t, err)
	require.Equal(t, updated, stored)
}

func TestEntryServiceUpdateCanMoveWindowExplicitly(t *testing.T) {
	store := newMemoryEntryStore()
	service := NewEntryService(store, SlotPolicySequential, nil)

	created, err := service.Submit("A", "2025-01-10", []EntryRowInput{filledRow("a"), filledRow("b")})
	require.NoError(t, err)

	moved, err := service.Update("A", created[0].ID, EntryUpdateInput{TimeSlot: stringPointer(models.TimeSlots[3]), Date: stringPointer("2025-01-11")})
	require.NoError(t, err)
	require.Equal(t, models.TimeSlots[3], moved.TimeSlot)
	require.Equal(t, "2025-01-11", moved.Date)

	_, err = service.Update("A", created[1].ID, EntryUpdateInput{TimeSlot: stringPointer("07.00 - 08.00")})
	require.ErrorIs(t, err, ErrInvalidTimeSlot)

	_, err = service.Update("A", created[1].ID, EntryUpdateInput{Result: stringPointer("  ")})
	require.ErrorIs(t, err, ErrEntryTextRequired)

	_, err = service.Update("A", created[1].ID, EntryUpdateInput{Date: stringPointer("tomorrow")})
	require.ErrorIs(t, err, ErrInvalidEntryDate)
}

func TestEntryServiceUpdateRejectsOccupiedWindow(t *testing.T) {
	store := newMemoryEntryStore()
	service := NewEntryService(store, SlotPolicySequential, nil)

	created, err := service.Submit("A", "2025-01-10", []EntryRowInput{filledRow("a"), filledRow("b")})
	require.NoError(t, err)

	_, err = service.Update("A", created[1].ID, EntryUpdateInput{TimeSlot: stringPointer(models.TimeSlots[0])})
	require.ErrorIs(t, err, ErrSlotTaken)
}

func TestEntryServiceIsOwnerScoped(t *testing.T) {
	store := newMemoryEntryStore()
	service := NewEntryService(store, SlotPolicySequential, nil)

	created, err := service.Submit("A", "2025-01-10", []EntryRowInput{filledRow("a")})
	require.NoError(t, err)

	_, err = service.Get("B", created[0].ID)
	require.ErrorIs(t, err, ErrEntryNotFound)

	_, err = service.Update("B", created[0].ID, EntryUpdateInput{Description: stringPointer("stolen")})
	require.ErrorIs(t, err, ErrEntryNotFound)

	require.ErrorIs(t, service.Delete("B", created[0].ID), ErrEntryNotFound)
	require.NoError(t, service.Delete("A", created[0].ID))
	require.ErrorIs(t, service.Delete("A", created[0].ID), ErrEntryNotFound)
}

func TestEntryServiceReportDowngradesReadFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := newMemoryEntryStore()
	store.readErr = errStubStorage
	service := NewEntryService(store, SlotPolicySequential, zap.New(core))

	groups := service.Report("A", nil, nil, ReportOrderDesc)
	require.NotNil(t, groups)
	require.Empty(t, groups)
	require.Equal(t, 1, logs.FilterMessage("read entries failed, serving empty report").Len())
}

func TestEntryServiceAllocateTreatsUnreadableDayAsEmpty(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := newMemoryEntryStore()
	store.readErr = errStubStorage
	service := NewEntryService(store, SlotPolicySequential, zap.New(core))

	allocation, err := service.Allocate("A", "2025-01-10")
	require.NoError(t, err)
	require.Equal(t, models.SlotsPerDay, allocation.Remaining)
	require.Equal(t, 1, logs.Len())
}

func TestEntryServiceWriteFailure(t *testing.T) {
	store := newMemoryEntryStore()
	store.writeErr = errStubStorage
	service := NewEntryService(store, SlotPolicySequential, nil)

	_, err := service.Submit("A", "2025-01-10", []EntryRowInput{filledRow("a")})
	require.ErrorIs(t, err, ErrEntryWriteFailed)
}

func TestEntryServiceReportRange(t *testing.T) {
	store := newMemoryEntryStore(
		models.ActivityEntry{ID: 1, Owner: "A", Date: "2025-01-09", TimeSlot: models.TimeSlots[0]},
		models.ActivityEntry{ID: 2, Owner: "A", Date: "2025-01-10", TimeSlot: models.TimeSlots[1]},
		models.ActivityEntry{ID: 3, Owner: "A", Date: "2025-01-10", TimeSlot: models.TimeSlots[0]},
		models.ActivityEntry{ID: 4, Owner: "B", Date: "2025-01-10", TimeSlot: models.TimeSlots[0]},
	)
	service := NewEntryService(store, SlotPolicySequential, nil)

	from := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	groups := service.Report("A", &from, &from, ReportOrderAsc)

	require.Len(t, groups, 1)
	require.Equal(t, "2025-01-10", groups[0].Date)
	require.Equal(t, []uint{3, 2}, []uint{groups[0].Entries[0].ID, groups[0].Entries[1].ID})
}
