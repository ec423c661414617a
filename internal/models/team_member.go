package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamMember struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"size:150;not null" json:"name"`
	Position  string         `gorm:"size:150" json:"position"`
	Bio       string         `gorm:"type:text" json:"bio"`
	PhotoURL  string         `gorm:"size:512" json:"photoUrl"`
	Email     string         `gorm:"size:255" json:"email"`
	SortOrder int            `gorm:"default:0" json:"order"`
	IsActive  bool           `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
