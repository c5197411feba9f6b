package storage

import "time"

// Subject is a top-level category in the note hierarchy.
type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Topic is a category nested under exactly one subject.
type Topic struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subjectId"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NoteSource records where a note's content came from.
type NoteSource struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

// Note is the atomic unit of imported content.
// The chatworthy* fields carry conversation provenance for notes created by
// the transcript importer; they are nil/empty for notes from other sources.
type Note struct {
	ID                   string       `json:"id"`
	SubjectID            *string      `json:"subjectId,omitempty"`
	TopicID              *string      `json:"topicId,omitempty"`
	Title                string       `json:"title"`
	Slug                 string       `json:"slug"`
	Markdown             string       `json:"markdown"`
	Tags                 []string     `json:"tags,omitempty"`
	Summary              string       `json:"summary,omitempty"`
	Sources              []NoteSource `json:"sources,omitempty"`
	ChatworthyNoteID     string       `json:"chatworthyNoteId,omitempty"`
	ChatworthyChatID     string       `json:"chatworthyChatId,omitempty"`
	ChatworthyChatTitle  string       `json:"chatworthyChatTitle,omitempty"`
	ChatworthyFileName   string       `json:"chatworthyFileName,omitempty"`
	ChatworthyTurnIndex  *int         `json:"chatworthyTurnIndex,omitempty"`
	ChatworthyTotalTurns *int         `json:"chatworthyTotalTurns,omitempty"`
	ImportBatchID        *string      `json:"importBatchId,omitempty"`
	CreatedAt            time.Time    `json:"createdAt"`
}

// ImportBatch is an audit record of one apply operation.
// Deleting a batch removes only the audit entry, never its notes.
type ImportBatch struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	ImportedCount  int       `json:"importedCount"`
	RemainingCount int       `json:"remainingCount"`
	SourceType     string    `json:"sourceType"`
}
