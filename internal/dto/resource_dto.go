package dto

import "time"

type PracticeAreaRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsActive    *bool  `json:"isActive"`
}

// TeamMemberRequest arrives either as JSON or as a multipart form with
// an optional "photo" file, hence the double tags.
type TeamMemberRequest struct {
	Name        string `json:"name" form:"name"`
	Position    string `json:"position" form:"position"`
	Bio         string `json:"bio" form:"bio"`
	Email       string `json:"email" form:"email"`
	IsActive    *bool  `json:"isActive" form:"isActive"`
	RemovePhoto bool   `json:"removePhoto" form:"removePhoto"`
}

type InformationRequest struct {
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Category    string     `json:"category"`
	IsActive    *bool      `json:"isActive"`
	PublishedAt *time.Time `json:"publishedAt"`
}
