package services

import (
	"errors"
	"fmt"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSettingNotFound = errors.New("setting not found")

// SettingsService is the single write path for site configuration. The
// upsert is keyed by the setting key and always records who wrote it.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

func (s *SettingsService) List() ([]models.Setting, error) {
	var rows []models.Setting
	if err := s.db.Order("key ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}
	return rows, nil
}

func (s *SettingsService) Get(key string) (*models.Setting, error) {
	var row models.Setting
	if err := s.db.Where("key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to fetch setting: %w", err)
	}
	return &row, nil
}

func (s *SettingsService) Upsert(key, value, updatedBy string) (*models.Setting, error) {
	if key == "" {
		return nil, &ValidationError{Fields: map[string]string{"key": "La clave es obligatoria"}}
	}

	row := models.Setting{
		ID:        uuid.New(),
		Key:       key,
		Value:     value,
		UpdatedBy: updatedBy,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert setting: %w", err)
	}
	return s.Get(key)
}

// BulkUpsert runs inside one transaction: either every key lands or none
// does.
func (s *SettingsService) BulkUpsert(items []dto.BulkSettingsItem, updatedBy string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if item.Key == "" {
				return &ValidationError{Fields: map[string]string{"key": "La clave es obligatoria"}}
			}
			row := models.Setting{
				ID:        uuid.New(),
				Key:       item.Key,
				Value:     item.Value,
				UpdatedBy: updatedBy,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
