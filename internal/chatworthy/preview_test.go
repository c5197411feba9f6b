package chatworthy

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"notestack/internal/service"
)

const threeTurnDoc = `---
chatId: c-42
chatTitle: Pasta basics
subject: Cooking
topic: Pasta
tags: cooking, pasta
---
# Cooking - Pasta

## Table of Contents
1. [First](#p-1)
2. [Second](#p-2)
3. [Third](#p-3)

<a id="p-1"></a>
## Choosing flour

Use tipo 00 for silky dough.

<a id="p-2"></a>
## Kneading

Knead ten minutes.

<a id="p-3"></a>
Third turn has no heading.
`

func TestAssembleFile_ThreeTurns(t *testing.T) {
	assembler := NewAssembler()

	rows := assembler.AssembleFile("pasta.md", []byte(threeTurnDoc))

	if len(rows) != 3 {
		t.Fatalf("AssembleFile() returned %d rows, want 3", len(rows))
	}

	for i, row := range rows {
		if row.TurnIndex != i+1 {
			t.Errorf("row %d index = %d, want %d", i, row.TurnIndex, i+1)
		}
		if row.TotalTurns != 3 {
			t.Errorf("row %d totalTurns = %d, want 3", i, row.TotalTurns)
		}
		if row.FileName != "pasta.md" {
			t.Errorf("row %d fileName = %q", i, row.FileName)
		}
		if row.ChatID != "c-42" || row.Subject != "Cooking" || row.Topic != "Pasta" {
			t.Errorf("row %d provenance = %+v", i, row)
		}
		if strings.Contains(row.Markdown, "<a id=") {
			t.Errorf("row %d kept anchor markup: %q", i, row.Markdown)
		}
		if strings.Contains(row.Markdown, "Table of Contents") {
			t.Errorf("row %d kept TOC: %q", i, row.Markdown)
		}
	}

	if rows[0].Title != "Choosing flour" {
		t.Errorf("row 0 title = %q, want heading text", rows[0].Title)
	}
	if rows[1].Title != "Kneading" {
		t.Errorf("row 1 title = %q, want heading text", rows[1].Title)
	}
	if rows[2].Title != "Turn 3" {
		t.Errorf("row 2 title = %q, want positional fallback", rows[2].Title)
	}

	if rows[0].ImportKey != "pasta.md#1" {
		t.Errorf("row 0 importKey = %q", rows[0].ImportKey)
	}
	if len(rows[0].Tags) != 2 || rows[0].Tags[0] != "cooking" {
		t.Errorf("row 0 tags = %v", rows[0].Tags)
	}
}

func TestAssembleFile_DroppedSectionKeepsOriginalIndexes(t *testing.T) {
	// The second of three anchored sections strips down to nothing. The
	// survivors keep their document-position indexes (1 and 3) while the
	// stamped total is the survivor count (2). A turn index may therefore
	// exceed the total; the coverage heuristic depends on this staying so.
	doc := "<a id=\"p-1\"></a>\nFirst.\n<a id=\"p-2\"></a>\n\n<a id=\"p-3\"></a>\nThird.\n"
	assembler := NewAssembler()

	rows := assembler.AssembleFile("gap.md", []byte(doc))

	if len(rows) != 2 {
		t.Fatalf("AssembleFile() returned %d rows, want 2", len(rows))
	}
	if rows[0].TurnIndex != 1 || rows[1].TurnIndex != 3 {
		t.Errorf("surviving indexes = %d, %d; want 1, 3", rows[0].TurnIndex, rows[1].TurnIndex)
	}
	if rows[0].TotalTurns != 2 || rows[1].TotalTurns != 2 {
		t.Errorf("totals = %d, %d; want survivor count 2", rows[0].TotalTurns, rows[1].TotalTurns)
	}
	if rows[1].TurnIndex <= rows[1].TotalTurns {
		t.Error("expected a turn index exceeding the survivor-count total in this fixture")
	}
}

func TestAssembleFile_NoAnchors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		fileName  string
		wantTitle string
	}{
		{
			name:      "front-matter title preferred",
			content:   "---\ntitle: My Note\nchatTitle: Chat\n---\nBody.\n",
			fileName:  "whatever.md",
			wantTitle: "My Note",
		},
		{
			name:      "chat title next",
			content:   "---\nchatTitle: Chat\n---\nBody.\n",
			fileName:  "whatever.md",
			wantTitle: "Chat",
		},
		{
			name:      "file name fallback",
			content:   "Body.\n",
			fileName:  "meeting-notes.md",
			wantTitle: "Meeting Notes",
		},
	}

	assembler := NewAssembler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := assembler.AssembleFile(tt.fileName, []byte(tt.content))

			if len(rows) != 1 {
				t.Fatalf("AssembleFile() returned %d rows, want 1", len(rows))
			}
			if rows[0].TurnIndex != 1 || rows[0].TotalTurns != 1 {
				t.Errorf("row = %d/%d, want 1/1", rows[0].TurnIndex, rows[0].TotalTurns)
			}
			if rows[0].Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", rows[0].Title, tt.wantTitle)
			}
		})
	}
}

func TestAssembleFile_TitleOnlyDocumentSurvives(t *testing.T) {
	// With no anchors the single section is never dropped, even when the
	// duplicated title was the only content.
	content := "---\ntitle: My Note\n---\n# My Note\n"
	assembler := NewAssembler()

	rows := assembler.AssembleFile("only-title.md", []byte(content))

	if len(rows) != 1 {
		t.Fatalf("AssembleFile() returned %d rows, want 1", len(rows))
	}
	if rows[0].Markdown != "" {
		t.Errorf("markdown = %q, want empty after stripping", rows[0].Markdown)
	}
}

func TestAssembleUpload(t *testing.T) {
	assembler := NewAssembler()

	t.Run("markdown extension", func(t *testing.T) {
		rows, err := assembler.AssembleUpload("notes/pasta.md", []byte("Body.\n"))
		if err != nil {
			t.Fatalf("AssembleUpload() error = %v", err)
		}
		if len(rows) != 1 || rows[0].FileName != "pasta.md" {
			t.Errorf("AssembleUpload() rows = %v", rows)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := assembler.AssembleUpload("notes.pdf", []byte("x"))
		if !errors.Is(err, service.ErrInvalidInput) {
			t.Errorf("AssembleUpload() error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("invalid zip", func(t *testing.T) {
		_, err := assembler.AssembleUpload("archive.zip", []byte("not a zip"))
		if !errors.Is(err, service.ErrInvalidInput) {
			t.Errorf("AssembleUpload() error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestAssembleArchive(t *testing.T) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	entries := map[string]string{
		"exports/one.md":   "First file.\n",
		"exports/two.md":   "Second file.\n",
		"exports/skip.txt": "not markdown",
	}
	for name, content := range entries {
		f, err := writer.Create(name)
		if err != nil {
			t.Fatalf("zip Create() error = %v", err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("zip Write() error = %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("zip Close() error = %v", err)
	}

	assembler := NewAssembler()
	rows, err := assembler.AssembleUpload("archive.zip", buf.Bytes())
	if err != nil {
		t.Fatalf("AssembleUpload() error = %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("AssembleUpload() returned %d rows, want 2 (txt entry skipped)", len(rows))
	}
	names := map[string]bool{}
	for _, row := range rows {
		names[row.FileName] = true
	}
	if !names["one.md"] || !names["two.md"] {
		t.Errorf("AssembleUpload() file names = %v", names)
	}
}
