package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"notestack/internal/handlers"
	"notestack/internal/importer"
	"notestack/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	DB             *sql.DB
	ImportService  importer.Service
	Subjects       storage.SubjectStore
	Topics         storage.TopicStore
	Notes          storage.NoteStore
	Batches        storage.ImportBatchStore
	MaxUploadBytes int64
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	previewHandler := handlers.NewImportPreviewHandler(deps.ImportService, deps.MaxUploadBytes)
	applyHandler := handlers.NewImportApplyHandler(deps.ImportService)
	subjectHandler := handlers.NewSubjectHandler(deps.Subjects, deps.Topics)
	noteHandler := handlers.NewNoteHandler(deps.Notes)
	batchHandler := handlers.NewBatchHandler(deps.Batches)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Method(http.MethodPost, "/import/preview", previewHandler)
		r.Method(http.MethodPost, "/import/apply", applyHandler)

		r.Get("/subjects", subjectHandler.List)
		r.Get("/subjects/{subjectID}/topics", subjectHandler.ListTopics)
		r.Get("/notes", noteHandler.List)
		r.Get("/notes/{noteID}", noteHandler.Get)
		r.Get("/import/batches", batchHandler.List)
		r.Delete("/import/batches/{batchID}", batchHandler.Delete)
	})

	return r
}
