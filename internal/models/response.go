package models

import "time"

type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend,omitempty"`
}

type UploadResultResponse struct {
	AccountID string `json:"account_id"`
	Stage     string `json:"stage"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

// UploadStateResponse is the wire form of every upload state variant.
// Type is one of initial, loading, needs_confirmation, success, error.
type UploadStateResponse struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message,omitempty"`
	Progress  int                    `json:"progress"`
	Stage     string                 `json:"stage,omitempty"`
	History   []UploadResultResponse `json:"history"`
	Conflicts []Account              `json:"conflicts,omitempty"`
}

type DaySummary struct {
	Name  string `json:"name"`
	Meals int    `json:"meals"`
}

type ValidateResponse struct {
	FileName      string       `json:"file_name"`
	MimeType      string       `json:"mime_type"`
	Days          []DaySummary `json:"days"`
	Meals         int          `json:"meals"`
	ShoppingItems int          `json:"shopping_items"`
}

type FileResponse struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	FileType   string    `json:"file_type"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type FilesResponse struct {
	Files []FileResponse `json:"files"`
}
