package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notestack/internal/service"
	"notestack/internal/storage"
)

// Resolver maps free-text subject and topic labels onto persisted hierarchy
// records, creating records on first use. Matching is by exact name;
// "Cooking" and "cooking" are different subjects.
type Resolver struct {
	subjects storage.SubjectStore
	topics   storage.TopicStore
}

// NewResolver creates a new Resolver.
func NewResolver(subjects storage.SubjectStore, topics storage.TopicStore) *Resolver {
	return &Resolver{subjects: subjects, topics: topics}
}

// Resolve finds or creates the subject and topic named by the labels.
// A blank subject label resolves to no placement at all; a blank topic label
// places the note directly under the subject.
func (r *Resolver) Resolve(ctx context.Context, subjectLabel, topicLabel string) (*storage.Subject, *storage.Topic, error) {
	subjectLabel = strings.TrimSpace(subjectLabel)
	topicLabel = strings.TrimSpace(topicLabel)
	if subjectLabel == "" {
		return nil, nil, nil
	}

	subject, err := r.resolveSubject(ctx, subjectLabel)
	if err != nil {
		return nil, nil, err
	}
	if topicLabel == "" {
		return subject, nil, nil
	}

	topic, err := r.resolveTopic(ctx, subject.ID, topicLabel)
	if err != nil {
		return nil, nil, err
	}
	return subject, topic, nil
}

func (r *Resolver) resolveSubject(ctx context.Context, name string) (*storage.Subject, error) {
	subject, err := r.subjects.GetByName(ctx, name)
	if err == nil {
		return subject, nil
	}
	if !errors.Is(err, service.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up subject %q: %w", name, err)
	}

	slug, err := allocateSlug(ctx, Slugify(name), r.subjects.SlugExists)
	if err != nil {
		return nil, err
	}

	subject = &storage.Subject{Name: name, Slug: slug}
	if err := r.subjects.Create(ctx, subject); err != nil {
		if storage.IsUniqueViolation(err) {
			// Lost a race on name or slug; another writer may have created
			// the same subject in the meantime.
			if existing, getErr := r.subjects.GetByName(ctx, name); getErr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to create subject %q: %w", name, err)
	}
	return subject, nil
}

func (r *Resolver) resolveTopic(ctx context.Context, subjectID, name string) (*storage.Topic, error) {
	topic, err := r.topics.GetByName(ctx, subjectID, name)
	if err == nil {
		return topic, nil
	}
	if !errors.Is(err, service.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up topic %q: %w", name, err)
	}

	inUse := func(ctx context.Context, slug string) (bool, error) {
		return r.topics.SlugExists(ctx, subjectID, slug)
	}
	slug, err := allocateSlug(ctx, Slugify(name), inUse)
	if err != nil {
		return nil, err
	}

	topic = &storage.Topic{SubjectID: subjectID, Name: name, Slug: slug}
	if err := r.topics.Create(ctx, topic); err != nil {
		if storage.IsUniqueViolation(err) {
			if existing, getErr := r.topics.GetByName(ctx, subjectID, name); getErr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to create topic %q: %w", name, err)
	}
	return topic, nil
}
