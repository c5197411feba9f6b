package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_batch_store.go -package=mocks notestack/internal/storage ImportBatchStore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// ImportBatchStore defines the interface for import batch audit records.
type ImportBatchStore interface {
	// Create inserts a new batch record, generating an ID if none is set.
	Create(ctx context.Context, batch *ImportBatch) error
	// GetByID gets a batch by id. Returns nil and ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*ImportBatch, error)
	// List returns all batches, newest first.
	List(ctx context.Context) ([]ImportBatch, error)
	// Delete removes a batch record. Notes stamped with the batch id are
	// left untouched; the batch is audit history only.
	Delete(ctx context.Context, id string) error
}

// ImportBatchRepo provides methods for import batch operations.
// It implements the ImportBatchStore interface.
type ImportBatchRepo struct {
	db *sql.DB
}

// NewImportBatchRepo creates a new ImportBatchRepo.
func NewImportBatchRepo(db *sql.DB) *ImportBatchRepo {
	return &ImportBatchRepo{db: db}
}

// Create inserts a new batch record, generating an ID if none is set.
func (r *ImportBatchRepo) Create(ctx context.Context, batch *ImportBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO import_batches (id, imported_count, remaining_count, source_type) VALUES (?, ?, ?, ?)",
		batch.ID, batch.ImportedCount, batch.RemainingCount, batch.SourceType,
	)
	if err != nil {
		return fmt.Errorf("failed to create import batch: %w", err)
	}

	return nil
}

// GetByID gets a batch by id. Returns nil and ErrNotFound if not found.
func (r *ImportBatchRepo) GetByID(ctx context.Context, id string) (*ImportBatch, error) {
	var batch ImportBatch
	var createdAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, created_at, imported_count, remaining_count, source_type FROM import_batches WHERE id = ?",
		id,
	).Scan(&batch.ID, &createdAtStr, &batch.ImportedCount, &batch.RemainingCount, &batch.SourceType)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query import batch: %w", err)
	}

	batch.CreatedAt, err = parseSQLiteTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}

	return &batch, nil
}

// List returns all batches, newest first.
func (r *ImportBatchRepo) List(ctx context.Context) ([]ImportBatch, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, created_at, imported_count, remaining_count, source_type FROM import_batches ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list import batches: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var batches []ImportBatch
	for rows.Next() {
		var batch ImportBatch
		var createdAtStr string
		if err := rows.Scan(&batch.ID, &createdAtStr, &batch.ImportedCount, &batch.RemainingCount, &batch.SourceType); err != nil {
			return nil, fmt.Errorf("failed to scan import batch: %w", err)
		}
		batch.CreatedAt, err = parseSQLiteTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}
		batches = append(batches, batch)
	}

	return batches, rows.Err()
}

// Delete removes a batch record without touching its notes.
func (r *ImportBatchRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM import_batches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete import batch: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
