// Package coverage reconciles imported conversation notes against the turn
// counts their exports declared, reporting which turns are present and which
// are missing per conversation. It is read-only and idempotent.
package coverage

import (
	"sort"

	"notestack/internal/storage"
)

// Status classifies a conversation's import completeness.
type Status string

const (
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial"
	StatusUnknown  Status = "unknown"
)

// Summary is the per-conversation reconciliation result.
type Summary struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title,omitempty"`
	FileNames           []string `json:"fileNames,omitempty"`
	ImportedTurnIndexes []int    `json:"importedTurnIndexes"`
	MissingTurnIndexes  []int    `json:"missingTurnIndexes"`
	TotalTurns          *int     `json:"totalTurns"`
	Status              Status   `json:"status"`
}

// Reconcile groups chat-provenanced notes by conversation identity and
// computes per-conversation turn coverage. Notes without a chat id or file
// name are skipped. Malformed provenance never errors; it degrades to the
// unknown status.
func Reconcile(notes []storage.Note) []Summary {
	groups := make(map[string][]storage.Note)
	var order []string
	for _, note := range notes {
		key := conversationKey(note)
		if key == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], note)
	}
	sort.Strings(order)

	summaries := make([]Summary, 0, len(order))
	for _, key := range order {
		summaries = append(summaries, summarize(key, groups[key]))
	}
	return summaries
}

func conversationKey(note storage.Note) string {
	if note.ChatworthyChatID != "" {
		return note.ChatworthyChatID
	}
	return note.ChatworthyFileName
}

func summarize(key string, notes []storage.Note) Summary {
	summary := Summary{
		Key:                 key,
		Title:               groupTitle(notes),
		FileNames:           groupFileNames(notes),
		ImportedTurnIndexes: []int{},
		MissingTurnIndexes:  []int{},
		Status:              StatusUnknown,
	}

	imported := distinctTurnIndexes(notes)
	summary.ImportedTurnIndexes = imported
	summary.TotalTurns = resolveTotalTurns(notes, imported)
	if summary.TotalTurns == nil {
		return summary
	}
	total := *summary.TotalTurns
	if total < 0 {
		return summary
	}

	// Exports stamp turn indexes 1-based; older data may already be 0-based.
	// A minimum of 1 is taken as the 1-based case and shifted down before
	// comparing against the 0-based range.
	normalized := make(map[int]bool, len(imported))
	shift := 0
	if len(imported) > 0 && imported[0] == 1 {
		shift = 1
	}
	for _, index := range imported {
		normalized[index-shift] = true
	}

	for i := 0; i < total; i++ {
		if !normalized[i] {
			summary.MissingTurnIndexes = append(summary.MissingTurnIndexes, i)
		}
	}

	switch {
	case len(summary.MissingTurnIndexes) == 0:
		summary.Status = StatusComplete
	case len(summary.MissingTurnIndexes) == total:
		summary.Status = StatusUnknown
	default:
		summary.Status = StatusPartial
	}
	return summary
}

// distinctTurnIndexes returns the sorted distinct turn indexes present in
// the group, skipping notes without one.
func distinctTurnIndexes(notes []storage.Note) []int {
	seen := make(map[int]bool)
	indexes := []int{}
	for _, note := range notes {
		if note.ChatworthyTurnIndex == nil || seen[*note.ChatworthyTurnIndex] {
			continue
		}
		seen[*note.ChatworthyTurnIndex] = true
		indexes = append(indexes, *note.ChatworthyTurnIndex)
	}
	sort.Ints(indexes)
	return indexes
}

// resolveTotalTurns picks the group's turn count: the single declared value
// when the group agrees, the maximum when declarations conflict, an
// inference from the highest imported index when nothing was declared, and
// nil when there is no evidence at all.
func resolveTotalTurns(notes []storage.Note, imported []int) *int {
	declared := make(map[int]bool)
	for _, note := range notes {
		if note.ChatworthyTotalTurns != nil {
			declared[*note.ChatworthyTotalTurns] = true
		}
	}

	switch {
	case len(declared) > 0:
		var max int
		seeded := false
		for v := range declared {
			if !seeded || v > max {
				max = v
				seeded = true
			}
		}
		return &max
	case len(imported) > 0:
		inferred := imported[len(imported)-1] + 1
		return &inferred
	default:
		return nil
	}
}

func groupTitle(notes []storage.Note) string {
	for _, note := range notes {
		if note.ChatworthyChatTitle != "" {
			return note.ChatworthyChatTitle
		}
	}
	for _, note := range notes {
		if note.Title != "" {
			return note.Title
		}
	}
	return ""
}

func groupFileNames(notes []storage.Note) []string {
	seen := make(map[string]bool)
	var names []string
	for _, note := range notes {
		if note.ChatworthyFileName == "" || seen[note.ChatworthyFileName] {
			continue
		}
		seen[note.ChatworthyFileName] = true
		names = append(names, note.ChatworthyFileName)
	}
	sort.Strings(names)
	return names
}
