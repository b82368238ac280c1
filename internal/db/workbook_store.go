package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/terraincognita07/daylog/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	WorkbookLogsSheet  = "logs"
	WorkbookUsersSheet = "users"
)

var (
	workbookLogsHeader  = []string{"id", "owner", "date", "time_slot", "description", "result"}
	workbookUsersHeader = []string{"username", "password_hash", "must_change_password"}
)

// WorkbookStore keeps both tables in one xlsx document. Every write reads
// the whole document, mutates it in memory and replaces the file. There is no
// uniqueness guard on (owner, date, time_slot); the mutex only serializes
// writers inside this process.
type WorkbookStore struct {
	path string
	mu   sync.Mutex
}

type workbookTables struct {
	logs  []models.ActivityEntry
	users []models.User
}

func OpenWorkbook(path string) (*WorkbookStore, error) {
	store := &WorkbookStore{path: path}
	if _, err := os.Stat(path); err == nil {
		if _, err := store.load(); err != nil {
			return nil, fmt.Errorf("read workbook: %w", err)
		}
		return store, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat workbook: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create workbook directory: %w", err)
	}
	if err := store.save(workbookTables{}); err != nil {
		return nil, fmt.Errorf("create workbook: %w", err)
	}
	return store, nil
}

func (store *WorkbookStore) Entries() *WorkbookEntryRepository {
	return &WorkbookEntryRepository{store: store}
}

func (store *WorkbookStore) Users() *WorkbookUserRepository {
	return &WorkbookUserRepository{store: store}
}

func (store *WorkbookStore) load() (workbookTables, error) {
	file, err := excelize.OpenFile(store.path)
	if err != nil {
		return workbookTables{}, err
	}
	defer func() { _ = file.Close() }()

	logRows, err := file.GetRows(WorkbookLogsSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return workbookTables{}, fmt.Errorf("read %s sheet: %w", WorkbookLogsSheet, err)
	}
	userRows, err := file.GetRows(WorkbookUsersSheet)
	if err != nil {
		return workbookTables{}, fmt.Errorf("read %s sheet: %w", WorkbookUsersSheet, err)
	}

	tables := workbookTables{
		logs:  make([]models.ActivityEntry, 0, len(logRows)),
		users: make([]models.User, 0, len(userRows)),
	}
	for index, row := range logRows {
		if index == 0 {
			continue
		}
		entry, ok := parseWorkbookLogRow(row)
		if !ok {
			continue
		}
		tables.logs = append(tables.logs, entry)
	}
	for index, row := range userRows {
		if index == 0 {
			continue
		}
		username := workbookCell(row, 0)
		if username == "" {
			continue
		}
		tables.users = append(tables.users, models.User{
			ID:                 uint(len(tables.users) + 1),
			Username:           username,
			PasswordHash:       workbookCell(row, 1),
			MustChangePassword: workbookCell(row, 2) == "1",
		})
	}
	return tables, nil
}

func (store *WorkbookStore) save(tables workbookTables) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName(file.GetSheetName(0), WorkbookLogsSheet); err != nil {
		return err
	}
	if _, err := file.NewSheet(WorkbookUsersSheet); err != nil {
		return err
	}

	if err := writeWorkbookRow(file, WorkbookLogsSheet, 1, stringsToCells(workbookLogsHeader)); err != nil {
		return err
	}
	for index, entry := range tables.logs {
		row := []any{entry.ID, entry.Owner, entry.Date, entry.TimeSlot, entry.Description, entry.Result}
		if err := writeWorkbookRow(file, WorkbookLogsSheet, index+2, row); err != nil {
			return err
		}
	}

	if err := writeWorkbookRow(file, WorkbookUsersSheet, 1, stringsToCells(workbookUsersHeader)); err != nil {
		return err
	}
	for index, user := range tables.users {
		mustChange := "0"
		if user.MustChangePassword {
			mustChange = "1"
		}
		if err := writeWorkbookRow(file, WorkbookUsersSheet, index+2, []any{user.Username, user.PasswordHash, mustChange}); err != nil {
			return err
		}
	}

	return store.replaceFile(file)
}

// replaceFile writes the workbook next to its target and renames it into
// place, so readers never see a half-written file.
func (store *WorkbookStore) replaceFile(file *excelize.File) error {
	temporary, err := os.CreateTemp(filepath.Dir(store.path), ".daylog-*.xlsx")
	if err != nil {
		return fmt.Errorf("create workbook temp file: %w", err)
	}
	temporaryPath := temporary.Name()

	if _, err := file.WriteTo(temporary); err != nil {
		_ = temporary.Close()
		_ = os.Remove(temporaryPath)
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := temporary.Close(); err != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := os.Rename(temporaryPath, store.path); err != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

// mutate runs the full read-modify-write cycle under the store lock.
func (store *WorkbookStore) mutate(change func(tables *workbookTables) error) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	tables, err := store.load()
	if err != nil {
		return err
	}
	if err := change(&tables); err != nil {
		return err
	}
	return store.save(tables)
}

func (store *WorkbookStore) read() (workbookTables, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.load()
}

func writeWorkbookRow(file *excelize.File, sheet string, rowNumber int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return err
	}
	return file.SetSheetRow(sheet, cell, &values)
}

func stringsToCells(values []string) []any {
	cells := make([]any, len(values))
	for index, value := range values {
		cells[index] = value
	}
	return cells
}

func parseWorkbookLogRow(row []string) (models.ActivityEntry, bool) {
	rawID := workbookCell(row, 0)
	id, err := strconv.ParseFloat(rawID, 64)
	if err != nil || id <= 0 {
		return models.ActivityEntry{}, false
	}
	return models.ActivityEntry{
		ID:          uint(id),
		Owner:       workbookCell(row, 1),
		Date:        normalizeWorkbookDate(workbookCell(row, 2)),
		TimeSlot:    workbookCell(row, 3),
		Description: workbookCell(row, 4),
		Result:      workbookCell(row, 5),
	}, true
}

// normalizeWorkbookDate trims a trailing time ("2025-01-10 00:00:00") and
// converts Excel date serials ("45667") left by date-formatted cells.
func normalizeWorkbookDate(raw string) string {
	if len(raw) > len(models.DayLayout) {
		if _, err := time.Parse(models.DayLayout, raw[:len(models.DayLayout)]); err == nil {
			return raw[:len(models.DayLayout)]
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial >= 1 {
		if day, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return day.Format(models.DayLayout)
		}
	}
	return raw
}

func workbookCell(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

type WorkbookEntryRepository struct {
	store *WorkbookStore
}

func (repo *WorkbookEntryRepository) ListSlotsByOwnerAndDate(owner string, day string) ([]string, error) {
	tables, err := repo.store.read()
	if err != nil {
		return nil, err
	}
	slots := make([]string, 0, models.SlotsPerDay)
	for _, entry := range tables.logs {
		if entry.Owner == owner && entry.Date == day {
			slots = append(slots, entry.TimeSlot)
		}
	}
	return slots, nil
}

func (repo *WorkbookEntryRepository) ListByOwnerRange(owner string, from string, to string) ([]models.ActivityEntry, error) {
	tables, err := repo.store.read()
	if err != nil {
		return nil, err
	}
	entries := make([]models.ActivityEntry, 0)
	for _, entry := range tables.logs {
		if entry.Owner != owner {
			continue
		}
		if from != "" && entry.Date < from {
			continue
		}
		if to != "" && entry.Date > to {
			continue
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date == entries[j].Date {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Date < entries[j].Date
	})
	return entries, nil
}

func (repo *WorkbookEntryRepository) FindByOwnerAndID(owner string, id uint) (models.ActivityEntry, bool, error) {
	tables, err := repo.store.read()
	if err != nil {
		return models.ActivityEntry{}, false, err
	}
	for _, entry := range tables.logs {
		if entry.ID == id && entry.Owner == owner {
			return entry, true, nil
		}
	}
	return models.ActivityEntry{}, false, nil
}

// CreateBatch assigns ids as max(id)+1 the way the shared sheet always did.
func (repo *WorkbookEntryRepository) CreateBatch(entries []models.ActivityEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return repo.store.mutate(func(tables *workbookTables) error {
		nextID := uint(1)
		for _, existing := range tables.logs {
			if existing.ID >= nextID {
				nextID = existing.ID + 1
			}
		}
		for index := range entries {
			entries[index].ID = nextID
			nextID++
			tables.logs = append(tables.logs, entries[index])
		}
		return nil
	})
}

func (repo *WorkbookEntryRepository) Save(entry *models.ActivityEntry) error {
	return repo.store.mutate(func(tables *workbookTables) error {
		for index := range tables.logs {
			if tables.logs[index].ID == entry.ID {
				tables.logs[index] = *entry
				return nil
			}
		}
		return gorm.ErrRecordNotFound
	})
}

func (repo *WorkbookEntryRepository) DeleteByOwnerAndID(owner string, id uint) (bool, error) {
	deleted := false
	err := repo.store.mutate(func(tables *workbookTables) error {
		kept := tables.logs[:0]
		for _, entry := range tables.logs {
			if entry.ID == id && entry.Owner == owner {
				deleted = true
				continue
			}
			kept = append(kept, entry)
		}
		tables.logs = kept
		return nil
	})
	return deleted, err
}

type WorkbookUserRepository struct {
	store *WorkbookStore
}

func (repo *WorkbookUserRepository) CountUsers() (int64, error) {
	tables, err := repo.store.read()
	if err != nil {
		return 0, err
	}
	return int64(len(tables.users)), nil
}

func (repo *WorkbookUserRepository) FindByUsername(username string) (models.User, error) {
	tables, err := repo.store.read()
	if err != nil {
		return models.User{}, err
	}
	username = strings.TrimSpace(username)
	for _, user := range tables.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (repo *WorkbookUserRepository) ExistsByUsername(username string) (bool, error) {
	_, err := repo.FindByUsername(username)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func (repo *WorkbookUserRepository) Create(user *models.User) error {
	return repo.CreateBatch([]models.User{*user})
}

func (repo *WorkbookUserRepository) CreateBatch(users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	return repo.store.mutate(func(tables *workbookTables) error {
		for _, user := range users {
			for _, existing := range tables.users {
				if existing.Username == user.Username {
					return models.ErrDuplicateRecord
				}
			}
			tables.users = append(tables.users, user)
		}
		return nil
	})
}

func (repo *WorkbookUserRepository) UpdatePassword(username string, passwordHash string, mustChangePassword bool) error {
	return repo.store.mutate(func(tables *workbookTables) error {
		for index := range tables.users {
			if tables.users[index].Username == strings.TrimSpace(username) {
				tables.users[index].PasswordHash = passwordHash
				tables.users[index].MustChangePassword = mustChangePassword
				return nil
			}
		}
		return gorm.ErrRecordNotFound
	})
}
