package upload

import (
	"context"
	"io"
	"time"

	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
)

// BlobStore persists raw uploaded files and returns a URL for the object.
type BlobStore interface {
	Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) (string, error)
}

type MetadataStore interface {
	Save(ctx context.Context, meta *models.FileMetadata) (string, error)
	UpdateStatus(ctx context.Context, id string, status models.FileStatus) error
}

// DietStore holds one assigned diet per account. Save overwrites whatever
// diet the account had.
type DietStore interface {
	Save(ctx context.Context, accountID string, diet *models.StructuredDiet, period models.Period) error
	HasOverlapping(ctx context.Context, accountID string, period models.Period) (bool, error)
}

// AccountDirectory resolves account ids, preserving the order of ids.
type AccountDirectory interface {
	Lookup(ctx context.Context, ids []string) ([]models.Account, error)
}

type Deps struct {
	Blobs    BlobStore
	Files    MetadataStore
	Diets    DietStore
	Accounts AccountDirectory
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
