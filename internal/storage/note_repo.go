package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_store.go -package=mocks notestack/internal/storage NoteStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NoteStore defines the interface for note storage operations.
type NoteStore interface {
	// Create inserts a new note, generating an ID if none is set.
	Create(ctx context.Context, note *Note) error
	// GetByID gets a note by id. Returns nil and ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*Note, error)
	// List returns notes, optionally filtered by topic, ordered by creation time.
	List(ctx context.Context, topicID *string) ([]Note, error)
	// SlugExists reports whether the slug is already used within the topic
	// scope. A nil topicID addresses the "no topic" scope.
	SlugExists(ctx context.Context, topicID *string, slug string) (bool, error)
	// ListByConversation returns notes whose chat provenance matches the
	// given chat id or exported file name.
	ListByConversation(ctx context.Context, chatID, fileName string) ([]Note, error)
	// ListChatProvenanced returns all notes carrying chat provenance.
	ListChatProvenanced(ctx context.Context) ([]Note, error)
	// SetImportBatchID stamps the given notes with an import batch id.
	SetImportBatchID(ctx context.Context, noteIDs []string, batchID string) error
}

const noteColumns = `id, subject_id, topic_id, title, slug, markdown, tags, summary, sources,
	chatworthy_note_id, chatworthy_chat_id, chatworthy_chat_title, chatworthy_file_name,
	chatworthy_turn_index, chatworthy_total_turns, import_batch_id, created_at`

// NoteRepo provides methods for note operations.
// It implements the NoteStore interface.
type NoteRepo struct {
	db *sql.DB
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

// Create inserts a new note, generating an ID if none is set.
func (r *NoteRepo) Create(ctx context.Context, note *Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}

	tagsJSON, err := marshalJSONColumn(note.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	sourcesJSON, err := marshalJSONColumn(note.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO notes (id, subject_id, topic_id, title, slug, markdown, tags, summary, sources,
			chatworthy_note_id, chatworthy_chat_id, chatworthy_chat_title, chatworthy_file_name,
			chatworthy_turn_index, chatworthy_total_turns, import_batch_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		note.ID, note.SubjectID, note.TopicID, note.Title, note.Slug, note.Markdown,
		tagsJSON, nullableString(note.Summary), sourcesJSON,
		nullableString(note.ChatworthyNoteID), nullableString(note.ChatworthyChatID),
		nullableString(note.ChatworthyChatTitle), nullableString(note.ChatworthyFileName),
		note.ChatworthyTurnIndex, note.ChatworthyTotalTurns, note.ImportBatchID,
	)
	if err != nil {
		return fmt.Errorf("failed to create note %q: %w", note.Title, err)
	}

	return nil
}

// GetByID gets a note by id. Returns nil and ErrNotFound if not found.
func (r *NoteRepo) GetByID(ctx context.Context, id string) (*Note, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id = ?", id)

	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}
	return note, nil
}

// List returns notes, optionally filtered by topic, ordered by creation time.
func (r *NoteRepo) List(ctx context.Context, topicID *string) ([]Note, error) {
	query := "SELECT " + noteColumns + " FROM notes"
	var args []interface{}
	if topicID != nil {
		query += " WHERE topic_id = ?"
		args = append(args, *topicID)
	}
	query += " ORDER BY created_at, id"

	return r.queryNotes(ctx, query, args...)
}

// SlugExists reports whether the slug is already used within the topic scope.
func (r *NoteRepo) SlugExists(ctx context.Context, topicID *string, slug string) (bool, error) {
	var count int
	var err error
	if topicID == nil {
		err = r.db.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM notes WHERE topic_id IS NULL AND slug = ?", slug,
		).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM notes WHERE topic_id = ? AND slug = ?", *topicID, slug,
		).Scan(&count)
	}
	if err != nil {
		return false, fmt.Errorf("failed to check note slug: %w", err)
	}
	return count > 0, nil
}

// ListByConversation returns notes whose chat provenance matches the given
// chat id or exported file name. Empty arguments match nothing.
func (r *NoteRepo) ListByConversation(ctx context.Context, chatID, fileName string) ([]Note, error) {
	var conditions []string
	var args []interface{}
	if chatID != "" {
		conditions = append(conditions, "chatworthy_chat_id = ?")
		args = append(args, chatID)
	}
	if fileName != "" {
		conditions = append(conditions, "chatworthy_file_name = ?")
		args = append(args, fileName)
	}
	if len(conditions) == 0 {
		return nil, nil
	}

	query := "SELECT " + noteColumns + " FROM notes WHERE " +
		strings.Join(conditions, " OR ") + " ORDER BY created_at, id"
	return r.queryNotes(ctx, query, args...)
}

// ListChatProvenanced returns all notes carrying chat provenance.
func (r *NoteRepo) ListChatProvenanced(ctx context.Context) ([]Note, error) {
	query := "SELECT " + noteColumns + ` FROM notes
		WHERE chatworthy_chat_id IS NOT NULL OR chatworthy_file_name IS NOT NULL
		ORDER BY created_at, id`
	return r.queryNotes(ctx, query)
}

// SetImportBatchID stamps the given notes with an import batch id in one update.
func (r *NoteRepo) SetImportBatchID(ctx context.Context, noteIDs []string, batchID string) error {
	if len(noteIDs) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(noteIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, 0, len(noteIDs)+1)
	args = append(args, batchID)
	for _, id := range noteIDs {
		args = append(args, id)
	}

	_, err := r.db.ExecContext(ctx,
		"UPDATE notes SET import_batch_id = ? WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("failed to stamp import batch id: %w", err)
	}
	return nil
}

func (r *NoteRepo) queryNotes(ctx context.Context, query string, args ...interface{}) ([]Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var notes []Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *note)
	}

	return notes, rows.Err()
}

// rowScanner abstracts sql.Row and sql.Rows for scanNote.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row rowScanner) (*Note, error) {
	var note Note
	var subjectID, topicID, tags, summary, sources sql.NullString
	var chatNoteID, chatID, chatTitle, fileName, batchID sql.NullString
	var turnIndex, totalTurns sql.NullInt64
	var createdAtStr string

	err := row.Scan(&note.ID, &subjectID, &topicID, &note.Title, &note.Slug, &note.Markdown,
		&tags, &summary, &sources, &chatNoteID, &chatID, &chatTitle, &fileName,
		&turnIndex, &totalTurns, &batchID, &createdAtStr)
	if err != nil {
		return nil, err
	}

	if subjectID.Valid {
		note.SubjectID = &subjectID.String
	}
	if topicID.Valid {
		note.TopicID = &topicID.String
	}
	if tags.Valid {
		if err := json.Unmarshal([]byte(tags.String), &note.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
	}
	note.Summary = summary.String
	if sources.Valid {
		if err := json.Unmarshal([]byte(sources.String), &note.Sources); err != nil {
			return nil, fmt.Errorf("failed to decode sources: %w", err)
		}
	}
	note.ChatworthyNoteID = chatNoteID.String
	note.ChatworthyChatID = chatID.String
	note.ChatworthyChatTitle = chatTitle.String
	note.ChatworthyFileName = fileName.String
	if turnIndex.Valid {
		v := int(turnIndex.Int64)
		note.ChatworthyTurnIndex = &v
	}
	if totalTurns.Valid {
		v := int(totalTurns.Int64)
		note.ChatworthyTotalTurns = &v
	}
	if batchID.Valid {
		note.ImportBatchID = &batchID.String
	}

	note.CreatedAt, err = parseSQLiteTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}

	return &note, nil
}

// marshalJSONColumn encodes a slice as JSON for a nullable TEXT column.
func marshalJSONColumn(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case []string:
		if len(val) == 0 {
			return nil, nil
		}
	case []NoteSource:
		if len(val) == 0 {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// nullableString maps "" to NULL for optional TEXT columns.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
