package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"

	"github.com/noisevisionproductions/Vitema-sub001/internal/config"
)

// Clients holds the Google Cloud clients of the Firebase backend.
type Clients struct {
	Firestore *firestore.Client
	Storage   *storage.Client
	cfg       *config.Config
}

func NewClients(ctx context.Context, cfg *config.Config) (*Clients, error) {
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	fs, err := firestore.NewClient(ctx, cfg.GCPProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	gcs, err := storage.NewClient(ctx)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Clients{Firestore: fs, Storage: gcs, cfg: cfg}, nil
}

func (c *Clients) Blobs() *StorageClient {
	return NewStorageClient(c.Storage, c.cfg.GCSBucket)
}

func (c *Clients) Files() *FileCollection {
	return &FileCollection{col: c.Firestore.Collection(c.cfg.FirestoreFilesCollection)}
}

func (c *Clients) Diets() *DietCollection {
	return &DietCollection{client: c.Firestore, col: c.Firestore.Collection(c.cfg.FirestoreDietsCollection)}
}

func (c *Clients) Accounts() *UserDirectory {
	return &UserDirectory{client: c.Firestore, col: c.Firestore.Collection(c.cfg.FirestoreUsersCollection)}
}

func (c *Clients) Close() error {
	serr := c.Storage.Close()
	ferr := c.Firestore.Close()
	if serr != nil {
		return serr
	}
	return ferr
}
