package coverage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"notestack/internal/storage"
)

// Report is the JSON artifact produced by one reconciliation run. It is a
// point-in-time snapshot; the store may change after it is written.
type Report struct {
	GeneratedAt time.Time `json:"generatedAt"`
	ChatCount   int       `json:"chatCount"`
	Chats       []Summary `json:"chats"`
}

// Runner reads chat-provenanced notes from the store and reconciles them.
type Runner struct {
	notes  storage.NoteStore
	logger *slog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(notes storage.NoteStore, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{notes: notes, logger: logger}
}

// Run produces a report over the store's current contents.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	notes, err := r.notes.ListChatProvenanced(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat-provenanced notes: %w", err)
	}

	summaries := Reconcile(notes)
	r.logger.Info("reconciled coverage", "notes", len(notes), "conversations", len(summaries))

	return &Report{
		GeneratedAt: time.Now().UTC(),
		ChatCount:   len(summaries),
		Chats:       summaries,
	}, nil
}

// WriteReport writes the report as indented JSON, creating the parent
// directory if needed.
func WriteReport(path string, report *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// PrintTable writes an aligned per-conversation summary table.
func PrintTable(w io.Writer, report *Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CONVERSATION\tSTATUS\tIMPORTED\tTOTAL\tMISSING")
	for _, chat := range report.Chats {
		total := "?"
		if chat.TotalTurns != nil {
			total = fmt.Sprintf("%d", *chat.TotalTurns)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\n",
			chat.Key, chat.Status, len(chat.ImportedTurnIndexes), total, len(chat.MissingTurnIndexes))
	}
	return tw.Flush()
}
