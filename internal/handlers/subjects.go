package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"notestack/internal/storage"
)

// SubjectHandler serves the subject hierarchy.
type SubjectHandler struct {
	subjects storage.SubjectStore
	topics   storage.TopicStore
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(subjects storage.SubjectStore, topics storage.TopicStore) *SubjectHandler {
	return &SubjectHandler{subjects: subjects, topics: topics}
}

// List returns all subjects ordered by name.
func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subjects, err := h.subjects.List(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list subjects")
		return
	}
	if subjects == nil {
		subjects = []storage.Subject{}
	}
	writeJSON(ctx, w, http.StatusOK, subjects)
}

// ListTopics returns the topics of one subject.
func (h *SubjectHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subjectID := chi.URLParam(r, "subjectID")
	if _, err := h.subjects.GetByID(ctx, subjectID); err != nil {
		handleServiceError(ctx, w, err, "Failed to load subject")
		return
	}

	topics, err := h.topics.ListBySubject(ctx, subjectID)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list topics")
		return
	}
	if topics == nil {
		topics = []storage.Topic{}
	}
	writeJSON(ctx, w, http.StatusOK, topics)
}
