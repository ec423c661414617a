package dto

import "github.com/google/uuid"

// ErrorBody is the error half of the response envelope:
// {"success":false,"error":{"message":...}}. The admin SPA surfaces
// Message in a toast and redirects to login on 401.
type ErrorBody struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Meta    *PageMeta   `json:"meta,omitempty"`
}

type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ReorderRequest carries the full permutation of entity ids; position in
// the slice becomes the sort order.
type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}
