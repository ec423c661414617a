package models

import (
	"time"

	"github.com/google/uuid"
)

// Setting is site key-value configuration (contact phone, social links,
// banner text). Written only through the single authenticated upsert
// endpoint.
type Setting struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key       string    `gorm:"size:120;not null;uniqueIndex" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedBy string    `gorm:"size:255" json:"updatedBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
