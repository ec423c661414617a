package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAuctionRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	StartingPrice float64    `json:"startingPrice"`
	Currency      string     `json:"currency"`
	Location      string     `json:"location"`
	AuctionDate   *time.Time `json:"auctionDate"`
}

// UpdateAuctionRequest: nil pointer means "not touched". RemovePDF is the
// explicit clear signal; omitting the file always preserves the stored
// URL.
type UpdateAuctionRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status"`
	StartingPrice *float64   `json:"startingPrice"`
	Currency      *string    `json:"currency"`
	Location      *string    `json:"location"`
	AuctionDate   *time.Time `json:"auctionDate"`
	RemovePDF     bool       `json:"removePdf"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type FeaturedRequest struct {
	IDs []uuid.UUID `json:"ids"`
}
