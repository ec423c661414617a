package models

import (
	"time"

	"github.com/google/uuid"
)

// Session stores the literal bearer token issued at login. Expiry is
// mirrored from the JWT exp claim and checked on every authenticated
// request; expired rows are purged lazily on first use, not by a sweeper.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;not null;size:512" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
