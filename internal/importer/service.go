package importer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_import_service.go -package=mocks notestack/internal/importer Service

import (
	"context"
	"log/slog"

	"notestack/internal/chatworthy"
	"notestack/internal/storage"
)

// DuplicateTurn warns that an uploaded turn already has a note in the store.
// Previews never block on duplicates; the client decides what to resubmit.
type DuplicateTurn struct {
	ImportKey       string `json:"importKey"`
	ConversationKey string `json:"conversationKey"`
	TurnIndex       int    `json:"turnIndex"`
	ExistingNoteID  string `json:"existingNoteId"`
}

// PreviewResult is the parsed, not-yet-persisted view of an upload.
type PreviewResult struct {
	Rows           []chatworthy.Row `json:"results"`
	DuplicateTurns []DuplicateTurn  `json:"duplicateTurns,omitempty"`
}

// Service is the import workflow consumed by the HTTP handlers: a read-only
// preview of an uploaded transcript, and the apply step that persists edited
// rows.
type Service interface {
	Preview(ctx context.Context, fileName string, data []byte) (*PreviewResult, error)
	Apply(ctx context.Context, rows []chatworthy.Row) (*ApplyResult, error)
}

type importService struct {
	assembler *chatworthy.Assembler
	notes     storage.NoteStore
	engine    *Engine
	logger    *slog.Logger
}

// NewService creates the import Service.
func NewService(assembler *chatworthy.Assembler, notes storage.NoteStore, engine *Engine, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &importService{assembler: assembler, notes: notes, engine: engine, logger: logger}
}

// Preview parses the upload into rows and annotates turns that already have
// a note in the store. No writes happen here.
func (s *importService) Preview(ctx context.Context, fileName string, data []byte) (*PreviewResult, error) {
	rows, err := s.assembler.AssembleUpload(fileName, data)
	if err != nil {
		return nil, err
	}

	duplicates, err := s.findDuplicateTurns(ctx, rows)
	if err != nil {
		// Advisory only; the preview is still usable without it.
		s.logger.Warn("duplicate turn scan failed", "file", fileName, "error", err)
		duplicates = nil
	}

	s.logger.Info("assembled preview", "file", fileName, "rows", len(rows), "duplicates", len(duplicates))
	return &PreviewResult{Rows: rows, DuplicateTurns: duplicates}, nil
}

// Apply persists the edited rows sequentially.
func (s *importService) Apply(ctx context.Context, rows []chatworthy.Row) (*ApplyResult, error) {
	return s.engine.Apply(ctx, rows)
}

func (s *importService) findDuplicateTurns(ctx context.Context, rows []chatworthy.Row) ([]DuplicateTurn, error) {
	existing := make(map[string]map[int]string)
	seen := make(map[string]bool)

	for _, row := range rows {
		key := row.ConversationKey()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		notes, err := s.notes.ListByConversation(ctx, row.ChatID, row.FileName)
		if err != nil {
			return nil, err
		}
		byTurn := make(map[int]string)
		for _, note := range notes {
			if note.ChatworthyTurnIndex != nil {
				byTurn[*note.ChatworthyTurnIndex] = note.ID
			}
		}
		existing[key] = byTurn
	}

	var duplicates []DuplicateTurn
	for _, row := range rows {
		key := row.ConversationKey()
		if noteID, ok := existing[key][row.TurnIndex]; ok {
			duplicates = append(duplicates, DuplicateTurn{
				ImportKey:       row.ImportKey,
				ConversationKey: key,
				TurnIndex:       row.TurnIndex,
				ExistingNoteID:  noteID,
			})
		}
	}
	return duplicates, nil
}
