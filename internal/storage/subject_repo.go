package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_subject_store.go -package=mocks notestack/internal/storage SubjectStore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// SubjectStore defines the interface for subject storage operations.
type SubjectStore interface {
	// GetByName gets a subject by exact name match.
	// Returns nil and ErrNotFound if not found.
	GetByName(ctx context.Context, name string) (*Subject, error)
	// GetByID gets a subject by id.
	GetByID(ctx context.Context, id string) (*Subject, error)
	// List returns all subjects ordered by name.
	List(ctx context.Context) ([]Subject, error)
	// SlugExists reports whether any subject already uses the given slug.
	SlugExists(ctx context.Context, slug string) (bool, error)
	// Create inserts a new subject, generating an ID if none is set.
	Create(ctx context.Context, subject *Subject) error
}

// SubjectRepo provides methods for subject operations.
// It implements the SubjectStore interface.
type SubjectRepo struct {
	db *sql.DB
}

// NewSubjectRepo creates a new SubjectRepo.
func NewSubjectRepo(db *sql.DB) *SubjectRepo {
	return &SubjectRepo{db: db}
}

// GetByName gets a subject by exact name match.
// Returns nil and ErrNotFound if not found.
func (r *SubjectRepo) GetByName(ctx context.Context, name string) (*Subject, error) {
	return r.getByColumn(ctx, "name", name)
}

// GetByID gets a subject by id.
func (r *SubjectRepo) GetByID(ctx context.Context, id string) (*Subject, error) {
	return r.getByColumn(ctx, "id", id)
}

func (r *SubjectRepo) getByColumn(ctx context.Context, column, value string) (*Subject, error) {
	var subject Subject
	var slug sql.NullString
	var createdAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, slug, created_at FROM subjects WHERE "+column+" = ?",
		value,
	).Scan(&subject.ID, &subject.Name, &slug, &createdAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subject: %w", err)
	}

	subject.Slug = slug.String
	subject.CreatedAt, err = parseSQLiteTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}

	return &subject, nil
}

// List returns all subjects ordered by name.
func (r *SubjectRepo) List(ctx context.Context) ([]Subject, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, slug, created_at FROM subjects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var subjects []Subject
	for rows.Next() {
		var subject Subject
		var slug sql.NullString
		var createdAtStr string
		if err := rows.Scan(&subject.ID, &subject.Name, &slug, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subject.Slug = slug.String
		subject.CreatedAt, err = parseSQLiteTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}
		subjects = append(subjects, subject)
	}

	return subjects, rows.Err()
}

// SlugExists reports whether any subject already uses the given slug.
func (r *SubjectRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM subjects WHERE slug = ?", slug,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check subject slug: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new subject, generating an ID if none is set.
func (r *SubjectRepo) Create(ctx context.Context, subject *Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.New().String()
	}

	var slug interface{}
	if subject.Slug != "" {
		slug = subject.Slug
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO subjects (id, name, slug) VALUES (?, ?, ?)",
		subject.ID, subject.Name, slug,
	)
	if err != nil {
		return fmt.Errorf("failed to create subject %q: %w", subject.Name, err)
	}

	return nil
}
