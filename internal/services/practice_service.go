package services

import (
	"errors"
	"fmt"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPracticeAreaNotFound = errors.New("practice area not found")

type PracticeAreaService struct {
	db *gorm.DB
}

func NewPracticeAreaService(db *gorm.DB) *PracticeAreaService {
	return &PracticeAreaService{db: db}
}

func (s *PracticeAreaService) List(activeOnly bool) ([]models.PracticeArea, error) {
	query := s.db.Order("sort_order ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []models.PracticeArea
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch practice areas: %w", err)
	}
	return rows, nil
}

func (s *PracticeAreaService) Get(id uuid.UUID) (*models.PracticeArea, error) {
	var row models.PracticeArea
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPracticeAreaNotFound
		}
		return nil, fmt.Errorf("failed to fetch practice area: %w", err)
	}
	return &row, nil
}

func (s *PracticeAreaService) Create(req *dto.PracticeAreaRequest) (*models.PracticeArea, error) {
	if req.Name == "" {
		return nil, &ValidationError{Fields: map[string]string{"name": "El nombre es obligatorio"}}
	}

	row := models.PracticeArea{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create practice area: %w", err)
	}
	return &row, nil
}

func (s *PracticeAreaService) Update(id uuid.UUID, req *dto.PracticeAreaRequest) (*models.PracticeArea, error) {
	row, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Icon != "" {
		updates["icon"] = req.Icon
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(row).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update practice area: %w", err)
		}
	}
	return row, nil
}

func (s *PracticeAreaService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.PracticeArea{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete practice area: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPracticeAreaNotFound
	}
	return nil
}

func (s *PracticeAreaService) Reorder(ids []uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			result := tx.Model(&models.PracticeArea{}).Where("id = ?", id).Update("sort_order", i)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrPracticeAreaNotFound
			}
		}
		return nil
	})
}
