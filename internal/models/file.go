package models

import (
	"errors"
	"time"
)

type FileStatus string

const (
	FileStatusPending   FileStatus = "PENDING"
	FileStatusProcessed FileStatus = "PROCESSED"
	FileStatusFailed    FileStatus = "FAILED"
)

func FileStatusFrom(s string) FileStatus {
	switch s {
	case "PROCESSED":
		return FileStatusProcessed
	case "FAILED":
		return FileStatusFailed
	}
	return FileStatusPending
}

// FileMetadata describes one stored copy of an uploaded diet file.
type FileMetadata struct {
	ID         string     `json:"id" firestore:"id"`
	OwnerID    string     `json:"owner_id" firestore:"ownerId"`
	UploadedBy string     `json:"uploaded_by,omitempty" firestore:"uploadedBy,omitempty"`
	FileName   string     `json:"file_name" firestore:"fileName"`
	FileURL    string     `json:"file_url" firestore:"fileUrl"`
	FileType   string     `json:"file_type" firestore:"fileType"`
	UploadedAt time.Time  `json:"uploaded_at" firestore:"uploadedAt"`
	Status     FileStatus `json:"status" firestore:"status"`
}

var ErrAccountNotFound = errors.New("account not found")

// Account is a diet recipient. Email is the contact field shown to admins.
type Account struct {
	ID          string `json:"id" firestore:"id"`
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"display_name,omitempty" firestore:"displayName,omitempty"`
}

// Label returns the most human-recognisable identifier of the account.
func (a Account) Label() string {
	if a.Email != "" {
		return a.Email
	}
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.ID
}
