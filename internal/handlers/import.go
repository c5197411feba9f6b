package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"notestack/internal/chatworthy"
	"notestack/internal/contextutil"
	"notestack/internal/importer"
)

// ImportPreviewHandler parses an uploaded transcript file into preview rows
// without writing anything.
type ImportPreviewHandler struct {
	service        importer.Service
	maxUploadBytes int64
}

// NewImportPreviewHandler creates a new ImportPreviewHandler.
func NewImportPreviewHandler(service importer.Service, maxUploadBytes int64) *ImportPreviewHandler {
	return &ImportPreviewHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// PreviewResponse represents the preview response payload.
type PreviewResponse struct {
	Imported       int                      `json:"imported"`
	Results        []chatworthy.Row         `json:"results"`
	DuplicateTurns []importer.DuplicateTurn `json:"duplicateTurns,omitempty"`
}

// ServeHTTP handles multipart transcript uploads.
func (h *ImportPreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		logger.WarnContext(ctx, "invalid multipart upload", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.WarnContext(ctx, "missing file field", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "A file field is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read upload", "file", header.Filename, "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	result, err := h.service.Preview(ctx, header.Filename, data)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to assemble preview")
		return
	}

	resp := PreviewResponse{
		Imported:       len(result.Rows),
		Results:        result.Rows,
		DuplicateTurns: result.DuplicateTurns,
	}
	if resp.Results == nil {
		resp.Results = []chatworthy.Row{}
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// ImportApplyHandler persists edited preview rows.
type ImportApplyHandler struct {
	service importer.Service
}

// NewImportApplyHandler creates a new ImportApplyHandler.
func NewImportApplyHandler(service importer.Service) *ImportApplyHandler {
	return &ImportApplyHandler{service: service}
}

// ApplyRequest represents the apply request payload.
type ApplyRequest struct {
	Rows []chatworthy.Row `json:"rows"`
}

// ServeHTTP handles apply requests.
func (h *ImportApplyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Rows) == 0 {
		logger.WarnContext(ctx, "apply request with no rows")
		writeError(ctx, w, http.StatusBadRequest, "At least one row is required")
		return
	}

	result, err := h.service.Apply(ctx, req.Rows)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to apply import")
		return
	}

	logger.InfoContext(ctx, "applied import",
		"created", result.Created,
		"failed", len(result.Failed),
		"batch", result.ImportBatchID,
	)
	writeJSON(ctx, w, http.StatusOK, result)
}
