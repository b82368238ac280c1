package db

import (
	"github.com/terraincognita07/daylog/internal/models"
	"gorm.io/gorm"
)

// EntryRepository stores activity entries with row-scoped statements. The
// unique index on (owner, date, time_slot) rejects a second entry for an
// occupied window.
type EntryRepository struct {
	database *gorm.DB
}

func NewEntryRepository(database *gorm.DB) *EntryRepository {
	return &EntryRepository{database: database}
}

func (repo *EntryRepository) ListSlotsByOwnerAndDate(owner string, day string) ([]string, error) {
	slots := make([]string, 0, models.SlotsPerDay)
	if err := repo.database.Model(&models.ActivityEntry{}).
		Where("owner = ? AND date = ?", owner, day).
		Order("id ASC").
		Pluck("time_slot", &slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (repo *EntryRepository) ListByOwnerRange(owner string, from string, to string) ([]models.ActivityEntry, error) {
	query := repo.database.Model(&models.ActivityEntry{}).Where("owner = ?", owner)
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		query = query.Where("date <= ?", to)
	}

	entries := make([]models.ActivityEntry, 0)
	if err := query.Order("date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *EntryRepository) FindByOwnerAndID(owner string, id uint) (models.ActivityEntry, bool, error) {
	entry := models.ActivityEntry{}
	result := repo.database.
		Where("owner = ? AND id = ?", owner, id).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.ActivityEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.ActivityEntry{}, false, nil
	}
	return entry, true, nil
}

func (repo *EntryRepository) CreateBatch(entries []models.ActivityEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return repo.database.Transaction(func(tx *gorm.DB) error {
		for index := range entries {
			if err := tx.Create(&entries[index]).Error; err != nil {
				return translateWriteError(err)
			}
		}
		return nil
	})
}

func (repo *EntryRepository) Save(entry *models.ActivityEntry) error {
	return translateWriteError(repo.database.Save(entry).Error)
}

func (repo *EntryRepository) DeleteByOwnerAndID(owner string, id uint) (bool, error) {
	result := repo.database.Where("owner = ? AND id = ?", owner, id).Delete(&models.ActivityEntry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
