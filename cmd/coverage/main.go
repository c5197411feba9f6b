// Command coverage reconciles imported conversation notes against their
// declared turn counts. It writes a JSON report artifact and prints a
// per-conversation summary table. The store is only read; it is safe to run
// against a live database at any time.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"notestack/internal/config"
	"notestack/internal/coverage"
	"notestack/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

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

	runner := coverage.NewRunner(storage.NewNoteRepo(db), logger)
	report, err := runner.Run(context.Background())
	if err != nil {
		log.Fatalf("Coverage run failed: %v", err)
	}

	if err := coverage.WriteReport(cfg.CoverageOutPath, report); err != nil {
		log.Fatalf("Failed to write coverage report: %v", err)
	}
	slog.Info("Wrote coverage report", "path", cfg.CoverageOutPath, "conversations", report.ChatCount)

	if err := coverage.PrintTable(os.Stdout, report); err != nil {
		log.Fatalf("Failed to print coverage table: %v", err)
	}
}
