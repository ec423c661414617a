package services

import (
	"errors"
	"fmt"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInformationNotFound = errors.New("information entry not found")

type InformationService struct {
	db *gorm.DB
}

func NewInformationService(db *gorm.DB) *InformationService {
	return &InformationService{db: db}
}

func (s *InformationService) List(activeOnly bool, category string) ([]models.Information, error) {
	query := s.db.Order("sort_order ASC, created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var rows []models.Information
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch information entries: %w", err)
	}
	return rows, nil
}

func (s *InformationService) Get(id uuid.UUID) (*models.Information, error) {
	var row models.Information
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInformationNotFound
		}
		return nil, fmt.Errorf("failed to fetch information entry: %w", err)
	}
	return &row, nil
}

func (s *InformationService) Create(req *dto.InformationRequest) (*models.Information, error) {
	if req.Title == "" {
		return nil, &ValidationError{Fields: map[string]string{"title": "El título es obligatorio"}}
	}

	row := models.Information{
		ID:          uuid.New(),
		Title:       req.Title,
		Body:        req.Body,
		Category:    req.Category,
		IsActive:    req.IsActive == nil || *req.IsActive,
		PublishedAt: req.PublishedAt,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create information entry: %w", err)
	}
	return &row, nil
}

func (s *InformationService) Update(id uuid.UUID, req *dto.InformationRequest) (*models.Information, error) {
	row, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Body != "" {
		updates["body"] = req.Body
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.PublishedAt != nil {
		updates["published_at"] = *req.PublishedAt
	}

	if len(updates) > 0 {
		if err := s.db.Model(row).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update information entry: %w", err)
		}
	}
	return row, nil
}

func (s *InformationService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Information{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete information entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInformationNotFound
	}
	return nil
}
