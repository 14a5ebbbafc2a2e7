package supabase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) DB() *sql.DB {
	return d.db
}

func (d *DatabaseClient) Files() *FileRepository {
	return &FileRepository{db: d.db}
}

func (d *DatabaseClient) Diets() *DietRepository {
	return &DietRepository{db: d.db}
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

// FileRepository stores FileMetadata rows in file_metadata.
type FileRepository struct {
	db *sql.DB
}

func (r *FileRepository) Save(ctx context.Context, meta *models.FileMetadata) (string, error) {
	id := meta.ID
	if id == "" {
		id = uuid.New().String()
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO file_metadata (id, owner_id, uploaded_by, file_name, file_url, file_type, status, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, id, meta.OwnerID, meta.UploadedBy, meta.FileName, meta.FileURL, meta.FileType,
		string(meta.Status), meta.UploadedAt).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to save file metadata: %w", err)
	}

	meta.ID = id
	return id, nil
}

func (r *FileRepository) UpdateStatus(ctx context.Context, id string, status models.FileStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE file_metadata
		SET status = $1
		WHERE id = $2
	`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update file status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("file metadata %s not found", id)
	}
	return nil
}

func (r *FileRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.FileMetadata, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, uploaded_by, file_name, file_url, file_type, status, uploaded_at
		FROM file_metadata
		WHERE owner_id = $1
		ORDER BY uploaded_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := []models.FileMetadata{}
	for rows.Next() {
		var (
			file   models.FileMetadata
			status string
		)
		err := rows.Scan(
			&file.ID, &file.OwnerID, &file.UploadedBy, &file.FileName,
			&file.FileURL, &file.FileType, &status, &file.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		file.Status = models.FileStatusFrom(status)
		files = append(files, file)
	}

	return files, rows.Err()
}

// DietRepository keeps one row per account in diets.
type DietRepository struct {
	db *sql.DB
}

func (r *DietRepository) Save(ctx context.Context, accountID string, diet *models.StructuredDiet, period models.Period) error {
	payload, err := json.Marshal(diet)
	if err != nil {
		return fmt.Errorf("failed to encode diet: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO diets (id, account_id, period_start, period_end, diet)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id) DO UPDATE
		SET period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			diet = EXCLUDED.diet,
			updated_at = NOW()
	`, uuid.New(), accountID, period.From, period.To, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save diet: %w", err)
	}
	return nil
}

func (r *DietRepository) HasOverlapping(ctx context.Context, accountID string, period models.Period) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM diets
			WHERE account_id = $1 AND period_start <= $3 AND period_end >= $2
		)
	`, accountID, period.From, period.To).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existing diets: %w", err)
	}
	return exists, nil
}

func (r *DietRepository) Get(ctx context.Context, accountID string) (*models.AssignedDiet, error) {
	var (
		assigned models.AssignedDiet
		payload  []byte
		from, to time.Time
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, period_start, period_end, diet, created_at, updated_at
		FROM diets
		WHERE account_id = $1
	`, accountID).Scan(
		&assigned.ID, &assigned.AccountID, &from, &to, &payload,
		&assigned.CreatedAt, &assigned.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diet: %w", err)
	}

	if err := json.Unmarshal(payload, &assigned.Diet); err != nil {
		return nil, fmt.Errorf("failed to decode diet: %w", err)
	}
	assigned.Period = models.Period{From: from, To: to}
	return &assigned, nil
}
