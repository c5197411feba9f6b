package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func createTestSubject(t *testing.T, db interface {
	Create(ctx context.Context, subject *Subject) error
}, name string) *Subject {
	t.Helper()
	subject := &Subject{Name: name}
	if err := db.Create(context.Background(), subject); err != nil {
		t.Fatalf("Create(subject) error = %v", err)
	}
	return subject
}

func TestTopicRepo_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	subjects := NewSubjectRepo(db)
	repo := NewTopicRepo(db)

	subject := createTestSubject(t, subjects, "Cooking")

	topic := &Topic{SubjectID: subject.ID, Name: "Pasta", Slug: "pasta"}
	if err := repo.Create(ctx, topic); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if topic.ID == "" {
		t.Fatal("Create() did not assign an ID")
	}

	got, err := repo.GetByName(ctx, subject.ID, "Pasta")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if got.ID != topic.ID || got.SubjectID != subject.ID || got.Slug != "pasta" {
		t.Errorf("GetByName() = %+v, want the created topic", got)
	}

	got, err = repo.GetByID(ctx, topic.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Pasta" {
		t.Errorf("GetByID() name = %q, want Pasta", got.Name)
	}

	if _, err := repo.GetByName(ctx, subject.ID, "pasta"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByName() with wrong case = %v, want ErrNotFound", err)
	}
}

func TestTopicRepo_UniquePerSubject(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	subjects := NewSubjectRepo(db)
	repo := NewTopicRepo(db)

	cooking := createTestSubject(t, subjects, "Cooking")
	art := createTestSubject(t, subjects, "Art")

	if err := repo.Create(ctx, &Topic{SubjectID: cooking.ID, Name: "Basics", Slug: "basics"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Same name under a different subject is fine
	if err := repo.Create(ctx, &Topic{SubjectID: art.ID, Name: "Basics", Slug: "basics"}); err != nil {
		t.Errorf("Create() under other subject error = %v", err)
	}

	// Same name under the same subject violates (subject_id, name)
	err := repo.Create(ctx, &Topic{SubjectID: cooking.ID, Name: "Basics", Slug: "basics-2"})
	if err == nil {
		t.Fatal("Create() expected unique violation on duplicate name")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation() = false for %v", err)
	}

	// Same slug under the same subject violates (subject_id, slug)
	err = repo.Create(ctx, &Topic{SubjectID: cooking.ID, Name: "Fundamentals", Slug: "basics"})
	if err == nil {
		t.Fatal("Create() expected unique violation on duplicate slug")
	}
}

func TestTopicRepo_NullSlugExempt(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	subjects := NewSubjectRepo(db)
	repo := NewTopicRepo(db)

	subject := createTestSubject(t, subjects, "Cooking")

	// Several topics without slugs may coexist under one subject
	if err := repo.Create(ctx, &Topic{SubjectID: subject.ID, Name: "One"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(ctx, &Topic{SubjectID: subject.ID, Name: "Two"}); err != nil {
		t.Errorf("Create() second slugless topic error = %v", err)
	}
}

func TestTopicRepo_SlugExistsAndList(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	subjects := NewSubjectRepo(db)
	repo := NewTopicRepo(db)

	subject := createTestSubject(t, subjects, "Cooking")
	for _, name := range []string{"Pasta", "Bread"} {
		topic := &Topic{SubjectID: subject.ID, Name: name, Slug: strings.ToLower(name)}
		if err := repo.Create(ctx, topic); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	exists, err := repo.SlugExists(ctx, subject.ID, "pasta")
	if err != nil {
		t.Fatalf("SlugExists() error = %v", err)
	}
	if !exists {
		t.Error("SlugExists(pasta) = false, want true")
	}

	topics, err := repo.ListBySubject(ctx, subject.ID)
	if err != nil {
		t.Fatalf("ListBySubject() error = %v", err)
	}
	if len(topics) != 2 || topics[0].Name != "Bread" {
		t.Errorf("ListBySubject() = %v, want Bread then Pasta", topics)
	}
}
