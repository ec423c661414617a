package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/estudiolex/subastas-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrContentNotFound = errors.New("content not found")
	ErrStudioNotFound  = errors.New("studio section not found")
)

type ContentService struct {
	db       *gorm.DB
	uploader storage.Uploader
}

func NewContentService(db *gorm.DB, uploader storage.Uploader) *ContentService {
	return &ContentService{db: db, uploader: uploader}
}

func (s *ContentService) ListPageContent() ([]models.PageContent, error) {
	var rows []models.PageContent
	if err := s.db.Order("key ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch page content: %w", err)
	}
	return rows, nil
}

func (s *ContentService) GetByKey(key string) (*models.PageContent, error) {
	var row models.PageContent
	if err := s.db.Where("key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to fetch page content: %w", err)
	}
	return &row, nil
}

// Upsert writes a content block keyed by its natural key, creating it on
// first write.
func (s *ContentService) Upsert(req *dto.UpsertContentRequest) (*models.PageContent, error) {
	if req.Key == "" {
		return nil, &ValidationError{Fields: map[string]string{"key": "La clave es obligatoria"}}
	}

	row := models.PageContent{
		ID:    uuid.New(),
		Key:   req.Key,
		Title: req.Title,
		Body:  req.Body,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "body", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert page content: %w", err)
	}
	return s.GetByKey(req.Key)
}

// BulkUpsert applies every item inside one transaction; a bad item rolls
// the whole batch back.
func (s *ContentService) BulkUpsert(items []dto.UpsertContentRequest) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if item.Key == "" {
				return &ValidationError{Fields: map[string]string{"key": "La clave es obligatoria"}}
			}
			row := models.PageContent{
				ID:    uuid.New(),
				Key:   item.Key,
				Title: item.Title,
				Body:  item.Body,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"title", "body", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ContentService) DeleteByKey(key string) error {
	result := s.db.Where("key = ?", key).Delete(&models.PageContent{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete page content: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrContentNotFound
	}
	return nil
}

func (s *ContentService) ListStudio(activeOnly bool) ([]models.StudioContent, error) {
	query := s.db.Order("sort_order ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []models.StudioContent
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch studio content: %w", err)
	}
	return rows, nil
}

func (s *ContentService) CreateStudio(req *dto.StudioContentRequest, imageURL string) (*models.StudioContent, error) {
	if req.Title == "" {
		return nil, &ValidationError{Fields: map[string]string{"title": "El título es obligatorio"}}
	}

	row := models.StudioContent{
		ID:       uuid.New(),
		Title:    req.Title,
		Body:     req.Body,
		ImageURL: imageURL,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create studio section: %w", err)
	}
	return &row, nil
}

func (s *ContentService) UpdateStudio(id uuid.UUID, req *dto.StudioContentRequest, imageURL string) (*models.StudioContent, error) {
	var row models.StudioContent
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudioNotFound
		}
		return nil, fmt.Errorf("failed to fetch studio section: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Body != "" {
		updates["body"] = req.Body
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if imageURL != "" {
		updates["image_url"] = imageURL
	} else if req.RemoveImage {
		if row.ImageURL != "" {
			s.uploader.Delete(context.Background(), row.ImageURL)
		}
		updates["image_url"] = ""
	}

	if len(updates) > 0 {
		if err := s.db.Model(&row).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update studio section: %w", err)
		}
	}
	return &row, nil
}

func (s *ContentService) DeleteStudio(id uuid.UUID) error {
	var row models.StudioContent
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudioNotFound
		}
		return fmt.Errorf("failed to fetch studio section: %w", err)
	}
	if row.ImageURL != "" {
		s.uploader.Delete(context.Background(), row.ImageURL)
	}
	return s.db.Delete(&row).Error
}

func (s *ContentService) ReorderStudio(ids []uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			result := tx.Model(&models.StudioContent{}).Where("id = ?", id).Update("sort_order", i)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrStudioNotFound
			}
		}
		return nil
	})
}
