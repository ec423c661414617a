package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Information holds announcements and legal notices shown on the public
// site.
type Information struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Body        string         `gorm:"type:text" json:"body"`
	Category    string         `gorm:"size:60;index" json:"category"`
	SortOrder   int            `gorm:"default:0" json:"order"`
	IsActive    bool           `gorm:"default:true" json:"isActive"`
	PublishedAt *time.Time     `json:"publishedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
