package storage

import (
	"context"
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestNoteRepo_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewNoteRepo(db)

	note := &Note{
		Title:    "Turn 1",
		Slug:     "turn-1",
		Markdown: "Some body text.",
		Tags:     []string{"cooking", "pasta"},
		Summary:  "A summary",
		Sources: []NoteSource{
			{Type: "chatworthy", URL: "https://chat.example/c/42"},
		},
		ChatworthyNoteID:     "n-1",
		ChatworthyChatID:     "c-42",
		ChatworthyChatTitle:  "Pasta basics",
		ChatworthyFileName:   "pasta.md",
		ChatworthyTurnIndex:  intPtr(1),
		ChatworthyTotalTurns: intPtr(3),
	}
	if err := repo.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if note.ID == "" {
		t.Fatal("Create() did not assign an ID")
	}

	got, err := repo.GetByID(ctx, note.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Turn 1" || got.Slug != "turn-1" || got.Markdown != "Some body text." {
		t.Errorf("GetByID() basic fields = %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "cooking" {
		t.Errorf("GetByID() tags = %v", got.Tags)
	}
	if len(got.Sources) != 1 || got.Sources[0].Type != "chatworthy" {
		t.Errorf("GetByID() sources = %v", got.Sources)
	}
	if got.ChatworthyTurnIndex == nil || *got.ChatworthyTurnIndex != 1 {
		t.Errorf("GetByID() turn index = %v", got.ChatworthyTurnIndex)
	}
	if got.ChatworthyTotalTurns == nil || *got.ChatworthyTotalTurns != 3 {
		t.Errorf("GetByID() total turns = %v", got.ChatworthyTotalTurns)
	}
	if got.ImportBatchID != nil {
		t.Errorf("GetByID() import batch = %v, want nil", got.ImportBatchID)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) = %v, want ErrNotFound", err)
	}
}

func TestNoteRepo_SlugExists(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewNoteRepo(db)
	subjects := NewSubjectRepo(db)
	topics := NewTopicRepo(db)

	subject := createTestSubject(t, subjects, "Cooking")
	topic := &Topic{SubjectID: subject.ID, Name: "Pasta", Slug: "pasta"}
	if err := topics.Create(ctx, topic); err != nil {
		t.Fatalf("Create(topic) error = %v", err)
	}

	topicless := &Note{Title: "A", Slug: "shared", Markdown: "x"}
	if err := repo.Create(ctx, topicless); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	scoped := &Note{Title: "B", Slug: "scoped", Markdown: "x", TopicID: &topic.ID}
	if err := repo.Create(ctx, scoped); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name    string
		topicID *string
		slug    string
		want    bool
	}{
		{name: "no-topic scope hit", topicID: nil, slug: "shared", want: true},
		{name: "no-topic scope miss", topicID: nil, slug: "scoped", want: false},
		{name: "topic scope hit", topicID: &topic.ID, slug: "scoped", want: true},
		{name: "topic scope miss", topicID: &topic.ID, slug: "shared", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.SlugExists(ctx, tt.topicID, tt.slug)
			if err != nil {
				t.Fatalf("SlugExists() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SlugExists() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNoteRepo_ListByConversation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewNoteRepo(db)

	fixtures := []*Note{
		{Title: "A", Slug: "a", Markdown: "x", ChatworthyChatID: "c-1", ChatworthyFileName: "one.md"},
		{Title: "B", Slug: "b", Markdown: "x", ChatworthyFileName: "one.md"},
		{Title: "C", Slug: "c", Markdown: "x", ChatworthyChatID: "c-2"},
		{Title: "D", Slug: "d", Markdown: "x"},
	}
	for _, n := range fixtures {
		if err := repo.Create(ctx, n); err != nil {
			t.Fatalf("Create(%s) error = %v", n.Title, err)
		}
	}

	notes, err := repo.ListByConversation(ctx, "c-1", "one.md")
	if err != nil {
		t.Fatalf("ListByConversation() error = %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("ListByConversation() returned %d notes, want 2", len(notes))
	}

	notes, err = repo.ListByConversation(ctx, "", "")
	if err != nil {
		t.Fatalf("ListByConversation() error = %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("ListByConversation() with empty keys returned %d notes, want 0", len(notes))
	}
}

func TestNoteRepo_ListChatProvenanced(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewNoteRepo(db)

	fixtures := []*Note{
		{Title: "A", Slug: "a", Markdown: "x", ChatworthyChatID: "c-1"},
		{Title: "B", Slug: "b", Markdown: "x", ChatworthyFileName: "one.md"},
		{Title: "C", Slug: "c", Markdown: "x"}, // no provenance
	}
	for _, n := range fixtures {
		if err := repo.Create(ctx, n); err != nil {
			t.Fatalf("Create(%s) error = %v", n.Title, err)
		}
	}

	notes, err := repo.ListChatProvenanced(ctx)
	if err != nil {
		t.Fatalf("ListChatProvenanced() error = %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("ListChatProvenanced() returned %d notes, want 2", len(notes))
	}
}

func TestNoteRepo_SetImportBatchID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewNoteRepo(db)

	var ids []string
	for _, slug := range []string{"a", "b", "c"} {
		n := &Note{Title: slug, Slug: slug, Markdown: "x"}
		if err := repo.Create(ctx, n); err != nil {
			t.Fatalf("Create(%s) error = %v", slug, err)
		}
		ids = append(ids, n.ID)
	}

	if err := repo.SetImportBatchID(ctx, ids[:2], "batch-1"); err != nil {
		t.Fatalf("SetImportBatchID() error = %v", err)
	}

	for i, id := range ids {
		note, err := repo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		stamped := note.ImportBatchID != nil && *note.ImportBatchID == "batch-1"
		if i < 2 && !stamped {
			t.Errorf("note %d not stamped with batch id", i)
		}
		if i == 2 && note.ImportBatchID != nil {
			t.Errorf("note %d unexpectedly stamped", i)
		}
	}

	// Empty id list is a no-op
	if err := repo.SetImportBatchID(ctx, nil, "batch-2"); err != nil {
		t.Errorf("SetImportBatchID(nil) error = %v", err)
	}
}
