package stores

import (
	"context"
	"fmt"

	"github.com/noisevisionproductions/Vitema-sub001/internal/config"
	"github.com/noisevisionproductions/Vitema-sub001/internal/database"
	"github.com/noisevisionproductions/Vitema-sub001/internal/firebase"
	"github.com/noisevisionproductions/Vitema-sub001/internal/logger"
	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
	"github.com/noisevisionproductions/Vitema-sub001/internal/supabase"
	"github.com/noisevisionproductions/Vitema-sub001/internal/upload"
)

// FileStore is a MetadataStore that can also list an account's files.
type FileStore interface {
	upload.MetadataStore
	ListByOwner(ctx context.Context, ownerID string) ([]models.FileMetadata, error)
}

// Set is an opened store backend.
type Set struct {
	Backend  string
	Blobs    upload.BlobStore
	Files    FileStore
	Diets    upload.DietStore
	Accounts upload.AccountDirectory
	closers  []func() error
}

type Options struct {
	// Migrate applies the embedded SQL migrations on the supabase backend.
	Migrate bool
}

// Open connects to the backend selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*Set, error) {
	switch cfg.StoreBackend {
	case config.BackendSupabase:
		return openSupabase(ctx, cfg, opts)
	case config.BackendFirebase:
		return openFirebase(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func openSupabase(ctx context.Context, cfg *config.Config, opts Options) (*Set, error) {
	client, err := supabase.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	db, err := supabase.NewDatabaseClient(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database client: %w", err)
	}

	if opts.Migrate {
		if err := database.NewMigrator(db.DB()).Run(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	logger.Info("store backend ready", "backend", config.BackendSupabase, "bucket", cfg.SupabaseStorageBucket)
	return &Set{
		Backend:  config.BackendSupabase,
		Blobs:    blobs,
		Files:    db.Files(),
		Diets:    db.Diets(),
		Accounts: client.Accounts(),
		closers:  []func() error{db.Close},
	}, nil
}

func openFirebase(ctx context.Context, cfg *config.Config) (*Set, error) {
	clients, err := firebase.NewClients(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("store backend ready", "backend", config.BackendFirebase, "bucket", cfg.GCSBucket)
	return &Set{
		Backend:  config.BackendFirebase,
		Blobs:    clients.Blobs(),
		Files:    clients.Files(),
		Diets:    clients.Diets(),
		Accounts: clients.Accounts(),
		closers:  []func() error{clients.Close},
	}, nil
}

// Deps returns the upload dependencies backed by this set.
func (s *Set) Deps() upload.Deps {
	return upload.Deps{
		Blobs:    s.Blobs,
		Files:    s.Files,
		Diets:    s.Diets,
		Accounts: s.Accounts,
	}
}

func (s *Set) Close() error {
	var first error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
