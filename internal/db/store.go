package db

import (
	"fmt"

	"github.com/terraincognita07/daylog/internal/models"
)

const (
	BackendSQLite   = "sqlite"
	BackendWorkbook = "workbook"
)

type EntryStorage interface {
	ListSlotsByOwnerAndDate(owner string, day string) ([]string, error)
	ListByOwnerRange(owner string, from string, to string) ([]models.ActivityEntry, error)
	FindByOwnerAndID(owner string, id uint) (models.ActivityEntry, bool, error)
	CreateBatch(entries []models.ActivityEntry) error
	Save(entry *models.ActivityEntry) error
	DeleteByOwnerAndID(owner string, id uint) (bool, error)
}

type UserStorage interface {
	CountUsers() (int64, error)
	FindByUsername(username string) (models.User, error)
	ExistsByUsername(username string) (bool, error)
	Create(user *models.User) error
	CreateBatch(users []models.User) error
	UpdatePassword(username string, passwordHash string, mustChangePassword bool) error
}

var (
	_ EntryStorage = (*EntryRepository)(nil)
	_ EntryStorage = (*WorkbookEntryRepository)(nil)
	_ UserStorage  = (*UserRepository)(nil)
	_ UserStorage  = (*WorkbookUserRepository)(nil)
)

// Store is the opened storage backend. Both backends report a missing row
// with gorm.ErrRecordNotFound, so IsNotFound applies to either.
type Store struct {
	Backend string
	Entries EntryStorage
	Users   UserStorage
	close   func() error
}

func OpenStore(backend string, dbPath string, workbookPath string) (*Store, error) {
	switch backend {
	case "", BackendSQLite:
		database, err := OpenSQLite(dbPath)
		if err != nil {
			return nil, err
		}
		repositories := NewRepositories(database)
		return &Store{
			Backend: BackendSQLite,
			Entries: repositories.Entries,
			Users:   repositories.Users,
			close: func() error {
				sqlDB, err := database.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil
	case BackendWorkbook:
		workbook, err := OpenWorkbook(workbookPath)
		if err != nil {
			return nil, err
		}
		return &Store{
			Backend: BackendWorkbook,
			Entries: workbook.Entries(),
			Users:   workbook.Users(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func (store *Store) Close() error {
	if store == nil || store.close == nil {
		return nil
	}
	return store.close()
}
