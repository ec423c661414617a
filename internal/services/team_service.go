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
)

var ErrTeamMemberNotFound = errors.New("team member not found")

type TeamService struct {
	db       *gorm.DB
	uploader storage.Uploader
}

func NewTeamService(db *gorm.DB, uploader storage.Uploader) *TeamService {
	return &TeamService{db: db, uploader: uploader}
}

func (s *TeamService) List(activeOnly bool) ([]models.TeamMember, error) {
	query := s.db.Order("sort_order ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []models.TeamMember
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch team members: %w", err)
	}
	return rows, nil
}

func (s *TeamService) Get(id uuid.UUID) (*models.TeamMember, error) {
	var row models.TeamMember
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, fmt.Errorf("failed to fetch team member: %w", err)
	}
	return &row, nil
}

func (s *TeamService) Create(req *dto.TeamMemberRequest, photoURL string) (*models.TeamMember, error) {
	if req.Name == "" {
		return nil, &ValidationError{Fields: map[string]string{"name": "El nombre es obligatorio"}}
	}

	row := models.TeamMember{
		ID:       uuid.New(),
		Name:     req.Name,
		Position: req.Position,
		Bio:      req.Bio,
		Email:    req.Email,
		PhotoURL: photoURL,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create team member: %w", err)
	}
	return &row, nil
}

func (s *TeamService) Update(id uuid.UUID, req *dto.TeamMemberRequest, photoURL string) (*models.TeamMember, error) {
	row, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Position != "" {
		updates["position"] = req.Position
	}
	if req.Bio != "" {
		updates["bio"] = req.Bio
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if photoURL != "" {
		updates["photo_url"] = photoURL
	} else if req.RemovePhoto {
		if row.PhotoURL != "" {
			s.uploader.Delete(context.Background(), row.PhotoURL)
		}
		updates["photo_url"] = ""
	}

	if len(updates) > 0 {
		if err := s.db.Model(row).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update team member: %w", err)
		}
	}
	return row, nil
}

func (s *TeamService) Delete(id uuid.UUID) error {
	row, err := s.Get(id)
	if err != nil {
		return err
	}
	if row.PhotoURL != "" {
		s.uploader.Delete(context.Background(), row.PhotoURL)
	}
	return s.db.Delete(row).Error
}

func (s *TeamService) Reorder(ids []uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			result := tx.Model(&models.TeamMember{}).Where("id = ?", id).Update("sort_order", i)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrTeamMemberNotFound
			}
		}
		return nil
	})
}
