package dto

type UpsertContentRequest struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type BulkContentRequest struct {
	Items []UpsertContentRequest `json:"items"`
}

// StudioContentRequest arrives either as JSON or as a multipart form
// with an optional "image" file, hence the double tags.
type StudioContentRequest struct {
	Title       string `json:"title" form:"title"`
	Body        string `json:"body" form:"body"`
	IsActive    *bool  `json:"isActive" form:"isActive"`
	RemoveImage bool   `json:"removeImage" form:"removeImage"`
}
