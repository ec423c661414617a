package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActivityLog is the append-only audit trail. Rows are written
// best-effort: a failed insert never affects the request that caused it.
type ActivityLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    *uuid.UUID     `gorm:"type:uuid;index" json:"actorId"`
	ActorEmail string         `gorm:"size:255" json:"actorEmail"`
	Action     string         `gorm:"size:60;not null;index" json:"action"`
	Entity     string         `gorm:"size:60;not null;index" json:"entity"`
	EntityID   string         `gorm:"size:64" json:"entityId"`
	Detail     datatypes.JSON `json:"detail"`
	IP         string         `gorm:"size:64" json:"ip"`
	UserAgent  string         `gorm:"size:255" json:"userAgent"`
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`
}
