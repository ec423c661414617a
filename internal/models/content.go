package models

import (
	"time"

	"github.com/google/uuid"
)

// PageContent is a key-addressed block of page text. Upserts are keyed
// by Key, never by ID, so the SPA can write blocks before they exist.
type PageContent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key       string    `gorm:"size:120;not null;uniqueIndex" json:"key"`
	Title     string    `gorm:"size:255" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StudioContent is a section of the firm-profile page (history, values,
// facilities). Ordered, toggleable, optionally illustrated.
type StudioContent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	ImageURL  string    `gorm:"size:512" json:"imageUrl"`
	SortOrder int       `gorm:"default:0" json:"order"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
