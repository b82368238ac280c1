package db

import (
	"errors"
	"strings"

	"github.com/terraincognita07/daylog/internal/models"
	"gorm.io/gorm"
)

func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return models.ErrDuplicateRecord
	}
	return err
}
