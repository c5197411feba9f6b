package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"notestack/internal/chatworthy"
	"notestack/internal/config"
	"notestack/internal/http"
	"notestack/internal/importer"
	"notestack/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	subjectRepo := storage.NewSubjectRepo(db)
	topicRepo := storage.NewTopicRepo(db)
	noteRepo := storage.NewNoteRepo(db)
	batchRepo := storage.NewImportBatchRepo(db)

	// Wire the import workflow
	assembler := chatworthy.NewAssembler()
	resolver := importer.NewResolver(subjectRepo, topicRepo)
	engine := importer.NewEngine(resolver, noteRepo, batchRepo, logger)
	importService := importer.NewService(assembler, noteRepo, engine, logger)
	slog.Info("Import service initialized")

	// Create router with dependencies
	deps := &http.Deps{
		DB:             db,
		ImportService:  importService,
		Subjects:       subjectRepo,
		Topics:         topicRepo,
		Notes:          noteRepo,
		Batches:        batchRepo,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
