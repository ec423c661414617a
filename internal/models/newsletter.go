package models

import (
	"time"

	"github.com/google/uuid"
)

type NewsletterSubscriber struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	IsActive         bool       `gorm:"default:true" json:"isActive"`
	UnsubscribeToken string     `gorm:"size:64;uniqueIndex" json:"-"`
	SubscribedAt     time.Time  `json:"subscribedAt"`
	UnsubscribedAt   *time.Time `json:"unsubscribedAt"`
}

// Campaign statuses.
const (
	CampaignDraft   = "DRAFT"
	CampaignSending = "SENDING"
	CampaignSent    = "SENT"
	CampaignFailed  = "FAILED"
)

type EmailCampaign struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Subject     string     `gorm:"size:255;not null" json:"subject"`
	Body        string     `gorm:"type:text" json:"body"`
	Status      string     `gorm:"size:20;default:'DRAFT'" json:"status"`
	SentCount   int        `json:"sentCount"`
	FailedCount int        `json:"failedCount"`
	SentAt      *time.Time `json:"sentAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
