package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auction lifecycle statuses. There is no enforced transition graph:
// an admin may set any status at any time.
const (
	AuctionDraft     = "DRAFT"
	AuctionPublished = "PUBLISHED"
	AuctionEnded     = "ENDED"
	AuctionCancelled = "CANCELLED"
)

// MaxFeaturedAuctions caps how many auctions the public site highlights.
const MaxFeaturedAuctions = 3

type Auction struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Status        string         `gorm:"size:20;default:'DRAFT';index" json:"status"`
	StartingPrice float64        `json:"startingPrice"`
	Currency      string         `gorm:"size:8;default:'ARS'" json:"currency"`
	Location      string         `gorm:"size:255" json:"location"`
	AuctionDate   *time.Time     `json:"auctionDate"`
	PDFURL        string         `gorm:"size:512" json:"pdfUrl"`
	IsFeatured    bool           `gorm:"default:false;index" json:"isFeatured"`
	SortOrder     int            `gorm:"default:0" json:"order"`
	Images        []AuctionImage `gorm:"foreignKey:AuctionID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// AuctionImage: at most one image per auction carries IsPrimary. The
// invariant is enforced by a transactional clear-then-set plus a partial
// unique index on Postgres (see database.Migrate).
type AuctionImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuctionID uuid.UUID `gorm:"type:uuid;not null;index" json:"auctionId"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	IsPrimary bool      `gorm:"default:false" json:"isPrimary"`
	SortOrder int       `gorm:"default:0" json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}
