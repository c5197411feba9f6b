package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"notestack/internal/contextutil"
	"notestack/internal/storage"
)

// BatchHandler serves import batch audit records.
type BatchHandler struct {
	batches storage.ImportBatchStore
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batches storage.ImportBatchStore) *BatchHandler {
	return &BatchHandler{batches: batches}
}

// List returns all import batches, newest first.
func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	batches, err := h.batches.List(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list import batches")
		return
	}
	if batches == nil {
		batches = []storage.ImportBatch{}
	}
	writeJSON(ctx, w, http.StatusOK, batches)
}

// Delete removes a batch audit record. Notes stamped with the batch id are
// left untouched.
func (h *BatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	batchID := chi.URLParam(r, "batchID")
	if err := h.batches.Delete(ctx, batchID); err != nil {
		handleServiceError(ctx, w, err, "Failed to delete import batch")
		return
	}

	logger.InfoContext(ctx, "deleted import batch", "batch", batchID)
	w.WriteHeader(http.StatusNoContent)
}
