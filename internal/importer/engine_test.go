package importer

import (
	"context"
	"errors"
	"testing"

	"notestack/internal/chatworthy"
	"notestack/internal/service"
	"notestack/internal/storage"
)

func newTestEngine(t *testing.T) (*Engine, *storage.SubjectRepo, *storage.TopicRepo, *storage.NoteRepo, *storage.ImportBatchRepo) {
	t.Helper()
	_, subjects, topics, notes, batches := newTestStores(t)
	resolver := NewResolver(subjects, topics)
	engine := NewEngine(resolver, notes, batches, discardLogger())
	return engine, subjects, topics, notes, batches
}

func threeTurnRows() []chatworthy.Row {
	return []chatworthy.Row{
		{
			ImportKey: "pasta.md#1", FileName: "pasta.md", Title: "Choosing flour",
			Subject: "Cooking", Topic: "Pasta", Markdown: "Use tipo 00.",
			Tags: []string{"cooking"}, PageURL: "https://chat.example/c/42",
			ChatID: "c-42", ChatTitle: "Pasta basics", TurnIndex: 1, TotalTurns: 3,
		},
		{
			ImportKey: "pasta.md#2", FileName: "pasta.md", Title: "Kneading",
			Subject: "Cooking", Topic: "Pasta", Markdown: "Knead ten minutes.",
			ChatID: "c-42", TurnIndex: 2, TotalTurns: 3,
		},
		{
			ImportKey: "pasta.md#3", FileName: "pasta.md", Title: "Resting",
			Subject: "Cooking", Topic: "Pasta", Markdown: "Rest an hour.",
			ChatID: "c-42", TurnIndex: 3, TotalTurns: 3,
		},
	}
}

func TestEngine_Apply(t *testing.T) {
	engine, subjects, topics, notes, batches := newTestEngine(t)
	ctx := context.Background()

	result, err := engine.Apply(ctx, threeTurnRows())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if result.Created != 3 || len(result.NoteIDs) != 3 {
		t.Fatalf("Apply() created = %d, noteIDs = %v", result.Created, result.NoteIDs)
	}
	if len(result.Failed) != 0 {
		t.Errorf("Apply() failures = %v", result.Failed)
	}
	if result.ImportBatchID == "" {
		t.Fatal("Apply() returned no import batch id")
	}

	// Exactly one subject and one topic for the whole batch.
	allSubjects, err := subjects.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(allSubjects) != 1 || allSubjects[0].Name != "Cooking" {
		t.Errorf("subjects = %+v, want single Cooking", allSubjects)
	}
	allTopics, err := topics.ListBySubject(ctx, allSubjects[0].ID)
	if err != nil {
		t.Fatalf("ListBySubject() error = %v", err)
	}
	if len(allTopics) != 1 || allTopics[0].Name != "Pasta" {
		t.Errorf("topics = %+v, want single Pasta", allTopics)
	}

	// Every note carries provenance, a distinct slug, and the batch stamp.
	slugs := map[string]bool{}
	for _, id := range result.NoteIDs {
		note, err := notes.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID(%q) error = %v", id, err)
		}
		if slugs[note.Slug] {
			t.Errorf("duplicate note slug %q", note.Slug)
		}
		slugs[note.Slug] = true
		if note.TopicID == nil || *note.TopicID != allTopics[0].ID {
			t.Errorf("note %q topic = %v", note.Title, note.TopicID)
		}
		if note.ChatworthyChatID != "c-42" || note.ChatworthyFileName != "pasta.md" {
			t.Errorf("note %q provenance = %+v", note.Title, note)
		}
		if note.ImportBatchID == nil || *note.ImportBatchID != result.ImportBatchID {
			t.Errorf("note %q batch stamp = %v", note.Title, note.ImportBatchID)
		}
		if note.ChatworthyTurnIndex == nil || note.ChatworthyTotalTurns == nil {
			t.Errorf("note %q turn provenance missing", note.Title)
		}
	}

	// First row's page URL became a source entry.
	first, err := notes.GetByID(ctx, result.NoteIDs[0])
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(first.Sources) != 1 || first.Sources[0].Type != "chatworthy" || first.Sources[0].URL != "https://chat.example/c/42" {
		t.Errorf("first note sources = %+v", first.Sources)
	}

	// Rows without a page URL still get the source-type tag.
	second, err := notes.GetByID(ctx, result.NoteIDs[1])
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(second.Sources) != 1 || second.Sources[0].Type != "chatworthy" || second.Sources[0].URL != "" {
		t.Errorf("second note sources = %+v, want one chatworthy entry without a url", second.Sources)
	}

	batch, err := batches.GetByID(ctx, result.ImportBatchID)
	if err != nil {
		t.Fatalf("GetByID(batch) error = %v", err)
	}
	if batch.ImportedCount != 3 || batch.RemainingCount != 3 || batch.SourceType != "chatworthy" {
		t.Errorf("batch = %+v", batch)
	}
}

func TestEngine_ReapplyIsNotIdempotent(t *testing.T) {
	// Applying the same rows twice creates a second set of notes with
	// suffixed slugs and a second batch. Deduplication is the client's call,
	// guided by the preview's duplicate warnings.
	engine, _, _, notes, batches := newTestEngine(t)
	ctx := context.Background()

	first, err := engine.Apply(ctx, threeTurnRows())
	if err != nil {
		t.Fatalf("Apply() first error = %v", err)
	}
	second, err := engine.Apply(ctx, threeTurnRows())
	if err != nil {
		t.Fatalf("Apply() second error = %v", err)
	}

	if second.ImportBatchID == first.ImportBatchID {
		t.Error("second apply reused the first batch id")
	}

	all, err := notes.List(ctx, nil)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("note count after re-apply = %d, want 6", len(all))
	}
	slugs := map[string]bool{}
	for _, note := range all {
		if slugs[note.Slug] {
			t.Errorf("duplicate slug %q after re-apply", note.Slug)
		}
		slugs[note.Slug] = true
	}
	if !slugs["choosing-flour"] || !slugs["choosing-flour-2"] {
		t.Errorf("slugs = %v, want base and suffixed variants", slugs)
	}

	allBatches, err := batches.List(ctx)
	if err != nil {
		t.Fatalf("List(batches) error = %v", err)
	}
	if len(allBatches) != 2 {
		t.Errorf("batch count = %d, want 2", len(allBatches))
	}
}

func TestEngine_Apply_Validation(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name string
		rows []chatworthy.Row
	}{
		{name: "no rows", rows: nil},
		{name: "missing title", rows: []chatworthy.Row{{ImportKey: "f.md#1", Markdown: "Body."}}},
		{name: "missing markdown", rows: []chatworthy.Row{{ImportKey: "f.md#1", Title: "T"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Apply(ctx, tt.rows)
			if !errors.Is(err, service.ErrInvalidInput) {
				t.Errorf("Apply() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestEngine_Apply_NoHierarchyLabels(t *testing.T) {
	engine, _, _, notes, _ := newTestEngine(t)
	ctx := context.Background()

	rows := []chatworthy.Row{{ImportKey: "loose.md#1", FileName: "loose.md", Title: "Loose Note", Markdown: "Body."}}
	result, err := engine.Apply(ctx, rows)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	note, err := notes.GetByID(ctx, result.NoteIDs[0])
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if note.SubjectID != nil || note.TopicID != nil {
		t.Errorf("note placement = %v/%v, want unplaced", note.SubjectID, note.TopicID)
	}
}

func TestEngine_Apply_FlagsMergedTurnLeftovers(t *testing.T) {
	engine, _, _, notes, _ := newTestEngine(t)
	ctx := context.Background()

	// A pre-existing note for the same chat whose body still holds several
	// turn anchors, from an import before turn splitting.
	merged := &storage.Note{
		Title:              "Pasta basics (full)",
		Slug:               "pasta-basics-full",
		Markdown:           "<a id=\"p-1\"></a>\nFirst.\n<a id=\"p-2\"></a>\nSecond.\n",
		ChatworthyChatID:   "c-42",
		ChatworthyFileName: "pasta.md",
	}
	if err := notes.Create(ctx, merged); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	result, err := engine.Apply(ctx, threeTurnRows())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if len(result.CleanupNeeded) != 1 {
		t.Fatalf("cleanupNeeded = %+v, want one item", result.CleanupNeeded)
	}
	if result.CleanupNeeded[0].NoteID != merged.ID {
		t.Errorf("cleanupNeeded note = %q, want %q", result.CleanupNeeded[0].NoteID, merged.ID)
	}

	// The merged note is only flagged, never removed.
	if _, err := notes.GetByID(ctx, merged.ID); err != nil {
		t.Errorf("flagged note was removed: %v", err)
	}

	// Notes created by this very apply are never flagged.
	for _, item := range result.CleanupNeeded {
		for _, id := range result.NoteIDs {
			if item.NoteID == id {
				t.Errorf("cleanup flagged a note created by this batch: %q", id)
			}
		}
	}
}
