package services

import (
	"errors"
	"sort"

	"github.com/terraincognita07/daylog/internal/models"
)

var errStubStorage = errors.New("stub storage unavailable")

// memoryEntryStore mirrors the SQLite repository, including the unique
// (owner, date, time_slot) guard when uniqueSlots is set.
type memoryEntryStore struct {
	entries     []models.ActivityEntry
	nextID      uint
	uniqueSlots bool
	readErr     error
	writeErr    error
}

func newMemoryEntryStore(entries ...models.ActivityEntry) *memoryEntryStore {
	store := &memoryEntryStore{uniqueSlots: true}
	for _, entry := range entries {
		if entry.ID > store.nextID {
			store.nextID = entry.ID
		}
		store.entries = append(store.entries, entry)
	}
	return store
}

func (store *memoryEntryStore) ListSlotsByOwnerAndDate(owner string, day string) ([]string, error) {
	if store.readErr != nil {
		return nil, store.readErr
	}
	slots := make([]string, 0)
	for _, entry := range store.entries {
		if entry.Owner == owner && entry.Date == day {
			slots = append(slots, entry.TimeSlot)
		}
	}
	return slots, nil
}

func (store *memoryEntryStore) ListByOwnerRange(owner string, from string, to string) ([]models.ActivityEntry, error) {
	if store.readErr != nil {
		return nil, store.readErr
	}
	result := make([]models.ActivityEntry, 0)
	for _, entry := range store.entries {
		if entry.Owner != owner || (from != "" && entry.Date < from) || (to != "" && entry.Date > to) {
			continue
		}
		result = append(result, entry)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (store *memoryEntryStore) FindByOwnerAndID(owner string, id uint) (models.ActivityEntry, bool, error) {
	if store.readErr != nil {
		return models.ActivityEntry{}, false, store.readErr
	}
	for _, entry := range store.entries {
		if entry.Owner == owner && entry.ID == id {
			return entry, true, nil
		}
	}
	return models.ActivityEntry{}, false, nil
}

func (store *memoryEntryStore) CreateBatch(entries []models.ActivityEntry) error {
	if store.writeErr != nil {
		return store.writeErr
	}
	for _, entry := range entries {
		if store.slotTaken(entry) {
			return models.ErrDuplicateRecord
		}
	}
	for index := range entries {
		store.nextID++
		entries[index].ID = store.nextID
		store.entries = append(store.entries, entries[index])
	}
	return nil
}

func (store *memoryEntryStore) Save(entry *models.ActivityEntry) error {
	if store.writeErr != nil {
		return store.writeErr
	}
	if store.slotTaken(*entry) {
		return models.ErrDuplicateRecord
	}
	for index := range store.entries {
		if store.entries[index].ID == entry.ID {
			store.entries[index] = *entry
			return nil
		}
	}
	return errors.New("missing entry")
}

func (store *memoryEntryStore) DeleteByOwnerAndID(owner string, id uint) (bool, error) {
	if store.writeErr != nil {
		return false, store.writeErr
	}
	for index, entry := range store.entries {
		if entry.Owner == owner && entry.ID == id {
			store.entries = append(store.entries[:index], store.entries[index+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (store *memoryEntryStore) slotTaken(candidate models.ActivityEntry) bool {
	if !store.uniqueSlots {
		return false
	}
	for _, entry := range store.entries {
		if entry.ID != candidate.ID && entry.Owner == candidate.Owner && entry.Date == candidate.Date && entry.TimeSlot == candidate.TimeSlot {
			return true
		}
	}
	return false
}

var errStubUserNotFound = errors.New("stub user not found")

func isStubUserNotFound(err error) bool {
	return errors.Is(err, errStubUserNotFound)
}

type memoryUserStore struct {
	users    map[string]models.User
	countErr error
	readErr  error
	writeErr error
	updates  int
}

func newMemoryUserStore(users ...models.User) *memoryUserStore {
	store := &memoryUserStore{users: map[string]models.User{}}
	for _, user := range users {
		store.users[user.Username] = user
	}
	return store
}

func (store *memoryUserStore) CountUsers() (int64, error) {
	if store.countErr != nil {
		return 0, store.countErr
	}
	return int64(len(store.users)), nil
}

func (store *memoryUserStore) FindByUsername(username string) (models.User, error) {
	if store.readErr != nil {
		return models.User{}, store.readErr
	}
	user, ok := store.users[username]
	if !ok {
		return models.User{}, errStubUserNotFound
	}
	return user, nil
}

func (store *memoryUserStore) ExistsByUsername(username string) (bool, error) {
	if store.readErr != nil {
		return false, store.readErr
	}
	_, ok := store.users[username]
	return ok, nil
}

func (store *memoryUserStore) Create(user *models.User) error {
	return store.CreateBatch([]models.User{*user})
}

func (store *memoryUserStore) CreateBatch(users []models.User) error {
	if store.writeErr != nil {
		return store.writeErr
	}
	for _, user := range users {
		if _, exists := store.users[user.Username]; exists {
			return models.ErrDuplicateRecord
		}
	}
	for _, user := range users {
		store.users[user.Username] = user
	}
	return nil
}

func (store *memoryUserStore) UpdatePassword(username string, passwordHash string, mustChangePassword bool) error {
	if store.writeErr != nil {
		return store.writeErr
	}
	user, ok := store.users[username]
	if !ok {
		return errStubUserNotFound
	}
	user.PasswordHash = passwordHash
	user.MustChangePassword = mustChangePassword
	store.users[username] = user
	store.updates++
	return nil
}
