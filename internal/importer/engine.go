package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"notestack/internal/chatworthy"
	"notestack/internal/service"
	"notestack/internal/storage"
)

// ApplyResult reports the outcome of one apply call.
type ApplyResult struct {
	Created       int           `json:"created"`
	NoteIDs       []string      `json:"noteIds"`
	ImportBatchID string        `json:"importBatchId,omitempty"`
	Failed        []RowFailure  `json:"failed,omitempty"`
	CleanupNeeded []CleanupItem `json:"cleanupNeeded,omitempty"`
}

// RowFailure identifies a row that could not be ingested. Other rows in the
// same batch are unaffected.
type RowFailure struct {
	ImportKey string `json:"importKey"`
	Error     string `json:"error"`
}

// CleanupItem flags a pre-existing note that looks like an artifact of an
// older import where several turns were merged into one note. The importer
// never deletes these; the client decides.
type CleanupItem struct {
	NoteID string `json:"noteId"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// Engine ingests edited preview rows into the note store. Rows are processed
// strictly sequentially: a later row may rely on a subject or topic an
// earlier row just created.
type Engine struct {
	resolver *Resolver
	notes    storage.NoteStore
	batches  storage.ImportBatchStore
	logger   *slog.Logger
}

// NewEngine creates a new Engine.
func NewEngine(resolver *Resolver, notes storage.NoteStore, batches storage.ImportBatchStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{resolver: resolver, notes: notes, batches: batches, logger: logger}
}

// Apply validates every row, then ingests them one by one. A row failure is
// recorded and skipped; remaining rows still apply. When at least one note
// was created, an import batch record is written and stamped onto the new
// notes, and the affected conversations are scanned for leftover merged-turn
// notes from earlier imports.
func (e *Engine) Apply(ctx context.Context, rows []chatworthy.Row) (*ApplyResult, error) {
	if len(rows) == 0 {
		return nil, &service.ValidationError{Field: "rows", Message: "at least one row is required"}
	}
	for i, row := range rows {
		if strings.TrimSpace(row.Title) == "" {
			return nil, &service.ValidationError{Field: fmt.Sprintf("rows[%d].title", i), Message: "title is required"}
		}
		if strings.TrimSpace(row.Markdown) == "" {
			return nil, &service.ValidationError{Field: fmt.Sprintf("rows[%d].markdown", i), Message: "markdown is required"}
		}
	}

	result := &ApplyResult{}
	created := make(map[string]bool)
	for _, row := range rows {
		note, err := e.applyRow(ctx, row)
		if err != nil {
			e.logger.Error("row ingestion failed", "importKey", row.ImportKey, "error", err)
			result.Failed = append(result.Failed, RowFailure{ImportKey: row.ImportKey, Error: err.Error()})
			continue
		}
		result.NoteIDs = append(result.NoteIDs, note.ID)
		created[note.ID] = true
	}
	result.Created = len(result.NoteIDs)

	if result.Created > 0 {
		batch := &storage.ImportBatch{
			ImportedCount:  result.Created,
			RemainingCount: result.Created,
			SourceType:     "chatworthy",
		}
		if err := e.batches.Create(ctx, batch); err != nil {
			return nil, err
		}
		if err := e.notes.SetImportBatchID(ctx, result.NoteIDs, batch.ID); err != nil {
			return nil, err
		}
		result.ImportBatchID = batch.ID
	}

	cleanup, err := e.scanCleanup(ctx, rows, created)
	if err != nil {
		e.logger.Warn("cleanup scan failed", "error", err)
	} else {
		result.CleanupNeeded = cleanup
	}

	return result, nil
}

func (e *Engine) applyRow(ctx context.Context, row chatworthy.Row) (*storage.Note, error) {
	subject, topic, err := e.resolver.Resolve(ctx, row.Subject, row.Topic)
	if err != nil {
		return nil, err
	}

	note := buildNote(row, subject, topic)
	base := Slugify(row.Title)
	inUse := func(ctx context.Context, slug string) (bool, error) {
		return e.notes.SlugExists(ctx, note.TopicID, slug)
	}

	// The slug probe and the insert are separate statements, so a concurrent
	// writer can still claim the slug in between. One re-allocation covers
	// that window.
	for attempt := 0; ; attempt++ {
		slug, err := allocateSlug(ctx, base, inUse)
		if err != nil {
			return nil, err
		}
		note.Slug = slug

		err = e.notes.Create(ctx, note)
		if err == nil {
			return note, nil
		}
		if attempt > 0 || !storage.IsUniqueViolation(err) {
			return nil, err
		}
		e.logger.Warn("slug conflict on insert, re-allocating", "importKey", row.ImportKey, "slug", slug)
	}
}

func buildNote(row chatworthy.Row, subject *storage.Subject, topic *storage.Topic) *storage.Note {
	note := &storage.Note{
		Title:               strings.TrimSpace(row.Title),
		Markdown:            row.Markdown,
		Tags:                row.Tags,
		Summary:             row.Summary,
		ChatworthyNoteID:    row.NoteID,
		ChatworthyChatID:    row.ChatID,
		ChatworthyChatTitle: row.ChatTitle,
		ChatworthyFileName:  row.FileName,
	}
	if subject != nil {
		note.SubjectID = &subject.ID
	}
	if topic != nil {
		note.TopicID = &topic.ID
	}
	// Every ingested note records its origin; the page URL is optional.
	note.Sources = []storage.NoteSource{{Type: "chatworthy", URL: row.PageURL}}
	if row.TurnIndex > 0 {
		v := row.TurnIndex
		note.ChatworthyTurnIndex = &v
	}
	if row.TotalTurns > 0 {
		v := row.TotalTurns
		note.ChatworthyTotalTurns = &v
	}
	return note
}

// scanCleanup looks at every conversation touched by the applied rows and
// flags pre-existing notes that still contain two or more turn anchors.
// Those are almost always whole conversations imported before turn splitting
// existed, now superseded by the per-turn notes just created.
func (e *Engine) scanCleanup(ctx context.Context, rows []chatworthy.Row, created map[string]bool) ([]CleanupItem, error) {
	type conversation struct{ chatID, fileName string }
	seen := make(map[string]bool)
	var conversations []conversation
	for _, row := range rows {
		key := row.ConversationKey()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		conversations = append(conversations, conversation{chatID: row.ChatID, fileName: row.FileName})
	}

	var items []CleanupItem
	flagged := make(map[string]bool)
	for _, conv := range conversations {
		notes, err := e.notes.ListByConversation(ctx, conv.chatID, conv.fileName)
		if err != nil {
			return nil, err
		}
		for _, note := range notes {
			if created[note.ID] || flagged[note.ID] {
				continue
			}
			if chatworthy.CountAnchors(note.Markdown) < 2 {
				continue
			}
			flagged[note.ID] = true
			items = append(items, CleanupItem{
				NoteID: note.ID,
				Title:  note.Title,
				Reason: "existing note still contains multiple turn anchors",
			})
		}
	}
	return items, nil
}
