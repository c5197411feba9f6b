package chatworthy

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"notestack/internal/service"
)

// Assembler turns uploaded transcript files into preview rows. It performs
// no persistent writes.
type Assembler struct {
	parser goldmark.Markdown
	logger *slog.Logger
}

// NewAssembler creates a new Assembler.
func NewAssembler() *Assembler {
	return &Assembler{
		parser: goldmark.New(),
		logger: slog.Default(),
	}
}

// AssembleUpload dispatches on the upload's file extension: markdown files
// are parsed directly, zip archives are expanded entry by entry. Any other
// extension is rejected before parsing.
func (a *Assembler) AssembleUpload(fileName string, data []byte) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".md", ".markdown":
		return a.AssembleFile(filepath.Base(fileName), data), nil
	case ".zip":
		return a.AssembleArchive(data)
	default:
		return nil, &service.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("unsupported file extension %q (want .md, .markdown, or .zip)", filepath.Ext(fileName)),
		}
	}
}

// AssembleArchive expands a zip archive and assembles every markdown entry
// independently. Non-markdown entries are skipped without error; an entry
// that fails to read is logged and skipped so the good entries still yield
// previews.
func (a *Assembler) AssembleArchive(data []byte) ([]Row, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &service.ValidationError{Field: "file", Message: "not a valid zip archive"}
	}

	var rows []Row
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(entry.Name))
		if ext != ".md" && ext != ".markdown" {
			continue
		}

		content, err := readArchiveEntry(entry)
		if err != nil {
			a.logger.Warn("skipping unreadable archive entry", "entry", entry.Name, "error", err)
			continue
		}
		rows = append(rows, a.AssembleFile(path.Base(entry.Name), content)...)
	}
	return rows, nil
}

func readArchiveEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rc.Close()
	}()
	return io.ReadAll(rc)
}

// AssembleFile parses one markdown document into preview rows:
// front matter off, body split at turn anchors, each section stripped of
// boilerplate. Anchored sections that strip down to nothing are dropped; a
// document with no anchors always yields exactly one row.
//
// Surviving sections keep the turn index of their original document
// position, while the stamped total is the survivor count. The two can
// disagree when sections were dropped; the coverage reconciler's index-base
// heuristic expects exactly this.
func (a *Assembler) AssembleFile(fileName string, content []byte) []Row {
	meta, body := Extract(content)
	sections := Split(body)
	anchored := HasAnchors(body)
	candidates := TitleCandidates(meta)

	type survivor struct {
		turnIndex int
		text      string
	}
	var survivors []survivor
	for _, section := range sections {
		text := strings.TrimSpace(Strip(section.Text, candidates))
		if text == "" && anchored {
			continue
		}
		survivors = append(survivors, survivor{turnIndex: section.TurnIndex, text: text})
	}

	totalTurns := len(survivors)
	if !anchored {
		totalTurns = 1
	}

	rows := make([]Row, 0, len(survivors))
	for _, s := range survivors {
		title := a.sectionTitle(s.text, s.turnIndex, anchored, meta, fileName)
		rows = append(rows, Row{
			ImportKey:  fileName + "#" + strconv.Itoa(s.turnIndex),
			FileName:   fileName,
			Title:      title,
			Subject:    strings.TrimSpace(meta.Subject),
			Topic:      strings.TrimSpace(meta.Topic),
			Markdown:   s.text,
			Tags:       meta.Tags,
			Summary:    meta.Summary,
			PageURL:    meta.PageURL,
			NoteID:     meta.NoteID,
			ChatID:     meta.ChatID,
			ChatTitle:  meta.ChatTitle,
			TurnIndex:  s.turnIndex,
			TotalTurns: totalTurns,
		})
	}
	return rows
}

// sectionTitle picks a row title. Whole-document rows prefer front-matter
// titles and fall back to the file name; anchored sections use their first
// sub-heading or a positional "Turn N" label.
func (a *Assembler) sectionTitle(text string, turnIndex int, anchored bool, meta Meta, fileName string) string {
	if !anchored {
		for _, candidate := range []string{meta.Title, meta.ChatTitle} {
			if strings.TrimSpace(candidate) != "" {
				return strings.TrimSpace(candidate)
			}
		}
		return titleFromFilename(fileName)
	}

	if heading := firstHeading(a.parser, text, 2, 6); heading != "" {
		return heading
	}
	return "Turn " + strconv.Itoa(turnIndex)
}
