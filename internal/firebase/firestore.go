package firebase

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
)

// FileCollection stores FileMetadata documents keyed by a generated id.
type FileCollection struct {
	col *firestore.CollectionRef
}

func (f *FileCollection) Save(ctx context.Context, meta *models.FileMetadata) (string, error) {
	if meta.ID == "" {
		meta.ID = uuid.New().String()
	}
	if _, err := f.col.Doc(meta.ID).Set(ctx, meta); err != nil {
		return "", fmt.Errorf("failed to save file metadata: %w", err)
	}
	return meta.ID, nil
}

func (f *FileCollection) UpdateStatus(ctx context.Context, id string, status models.FileStatus) error {
	_, err := f.col.Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(status)},
	})
	if err != nil {
		return fmt.Errorf("failed to update file status: %w", err)
	}
	return nil
}

func (f *FileCollection) ListByOwner(ctx context.Context, ownerID string) ([]models.FileMetadata, error) {
	snaps, err := f.col.Where("ownerId", "==", ownerID).
		OrderBy("uploadedAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]models.FileMetadata, 0, len(snaps))
	for _, snap := range snaps {
		var file models.FileMetadata
		if err := snap.DataTo(&file); err != nil {
			return nil, fmt.Errorf("failed to decode file %s: %w", snap.Ref.ID, err)
		}
		file.ID = snap.Ref.ID
		files = append(files, file)
	}
	return files, nil
}

// DietCollection keeps one document per account, keyed by account id.
type DietCollection struct {
	client *firestore.Client
	col    *firestore.CollectionRef
	now    func() time.Time
}

func (d *DietCollection) timestamp() time.Time {
	if d.now != nil {
		return d.now()
	}
	return time.Now()
}

func (d *DietCollection) Save(ctx context.Context, accountID string, diet *models.StructuredDiet, period models.Period) error {
	ref := d.col.Doc(accountID)
	doc := newAssignedDiet(accountID, diet, period, d.timestamp())

	err := d.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if snap != nil && snap.Exists() {
			var existing models.AssignedDiet
			if err := snap.DataTo(&existing); err == nil && !existing.CreatedAt.IsZero() {
				doc.ID = existing.ID
				doc.CreatedAt = existing.CreatedAt
			}
		}
		return tx.Set(ref, doc)
	})
	if err != nil {
		return fmt.Errorf("failed to save diet: %w", err)
	}
	return nil
}

func (d *DietCollection) HasOverlapping(ctx context.Context, accountID string, period models.Period) (bool, error) {
	existing, err := d.Get(ctx, accountID)
	if err != nil {
		return false, err
	}
	return existing != nil && existing.Period.Overlaps(period), nil
}

// Get returns the account's diet, or nil when it has none.
func (d *DietCollection) Get(ctx context.Context, accountID string) (*models.AssignedDiet, error) {
	snap, err := d.col.Doc(accountID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diet: %w", err)
	}

	var assigned models.AssignedDiet
	if err := snap.DataTo(&assigned); err != nil {
		return nil, fmt.Errorf("failed to decode diet: %w", err)
	}
	return &assigned, nil
}

func newAssignedDiet(accountID string, diet *models.StructuredDiet, period models.Period, now time.Time) *models.AssignedDiet {
	return &models.AssignedDiet{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Period:    period,
		Diet:      *diet,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UserDirectory resolves accounts from the users collection.
type UserDirectory struct {
	client *firestore.Client
	col    *firestore.CollectionRef
}

func (u *UserDirectory) Lookup(ctx context.Context, ids []string) ([]models.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = u.col.Doc(id)
	}

	snaps, err := u.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	accounts := make([]models.Account, 0, len(snaps))
	for i, snap := range snaps {
		if !snap.Exists() {
			return nil, fmt.Errorf("%s: %w", ids[i], models.ErrAccountNotFound)
		}
		var acc models.Account
		if err := snap.DataTo(&acc); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", ids[i], err)
		}
		acc.ID = snap.Ref.ID
		accounts = append(accounts, acc)
	}
	return accounts, nil
}
