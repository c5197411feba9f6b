package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_topic_store.go -package=mocks notestack/internal/storage TopicStore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// TopicStore defines the interface for topic storage operations.
type TopicStore interface {
	// GetByName gets a topic by exact name match within a subject.
	// Returns nil and ErrNotFound if not found.
	GetByName(ctx context.Context, subjectID, name string) (*Topic, error)
	// GetByID gets a topic by id.
	GetByID(ctx context.Context, id string) (*Topic, error)
	// ListBySubject returns all topics of a subject ordered by name.
	ListBySubject(ctx context.Context, subjectID string) ([]Topic, error)
	// SlugExists reports whether the slug is already used within the subject.
	SlugExists(ctx context.Context, subjectID, slug string) (bool, error)
	// Create inserts a new topic, generating an ID if none is set.
	Create(ctx context.Context, topic *Topic) error
}

// TopicRepo provides methods for topic operations.
// It implements the TopicStore interface.
type TopicRepo struct {
	db *sql.DB
}

// NewTopicRepo creates a new TopicRepo.
func NewTopicRepo(db *sql.DB) *TopicRepo {
	return &TopicRepo{db: db}
}

// GetByName gets a topic by exact name match within a subject.
// Returns nil and ErrNotFound if not found.
func (r *TopicRepo) GetByName(ctx context.Context, subjectID, name string) (*Topic, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, subject_id, name, slug, created_at FROM topics WHERE subject_id = ? AND name = ?",
		subjectID, name,
	)
	return scanTopic(row)
}

// GetByID gets a topic by id.
func (r *TopicRepo) GetByID(ctx context.Context, id string) (*Topic, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, subject_id, name, slug, created_at FROM topics WHERE id = ?", id,
	)
	return scanTopic(row)
}

func scanTopic(row *sql.Row) (*Topic, error) {
	var topic Topic
	var slug sql.NullString
	var createdAtStr string

	err := row.Scan(&topic.ID, &topic.SubjectID, &topic.Name, &slug, &createdAtStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query topic: %w", err)
	}

	topic.Slug = slug.String
	topic.CreatedAt, err = parseSQLiteTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}

	return &topic, nil
}

// ListBySubject returns all topics of a subject ordered by name.
func (r *TopicRepo) ListBySubject(ctx context.Context, subjectID string) ([]Topic, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, subject_id, name, slug, created_at FROM topics WHERE subject_id = ? ORDER BY name",
		subjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var topics []Topic
	for rows.Next() {
		var topic Topic
		var slug sql.NullString
		var createdAtStr string
		if err := rows.Scan(&topic.ID, &topic.SubjectID, &topic.Name, &slug, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topic.Slug = slug.String
		topic.CreatedAt, err = parseSQLiteTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}
		topics = append(topics, topic)
	}

	return topics, rows.Err()
}

// SlugExists reports whether the slug is already used within the subject.
// Topics without a slug are exempt from the uniqueness check.
func (r *TopicRepo) SlugExists(ctx context.Context, subjectID, slug string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM topics WHERE subject_id = ? AND slug = ?",
		subjectID, slug,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check topic slug: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new topic, generating an ID if none is set.
func (r *TopicRepo) Create(ctx context.Context, topic *Topic) error {
	if topic.ID == "" {
		topic.ID = uuid.New().String()
	}

	var slug interface{}
	if topic.Slug != "" {
		slug = topic.Slug
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO topics (id, subject_id, name, slug) VALUES (?, ?, ?, ?)",
		topic.ID, topic.SubjectID, topic.Name, slug,
	)
	if err != nil {
		return fmt.Errorf("failed to create topic %q: %w", topic.Name, err)
	}

	return nil
}
