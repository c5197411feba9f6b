package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"notestack/internal/storage"
)

// NoteHandler serves persisted notes.
type NoteHandler struct {
	notes storage.NoteStore
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(notes storage.NoteStore) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// List returns notes, optionally filtered by the topic query parameter
// (a topic id).
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var topicID *string
	if v := r.URL.Query().Get("topic"); v != "" {
		topicID = &v
	}

	notes, err := h.notes.List(ctx, topicID)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list notes")
		return
	}
	if notes == nil {
		notes = []storage.Note{}
	}
	writeJSON(ctx, w, http.StatusOK, notes)
}

// Get returns one note by id.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	note, err := h.notes.GetByID(ctx, chi.URLParam(r, "noteID"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load note")
		return
	}
	writeJSON(ctx, w, http.StatusOK, note)
}
