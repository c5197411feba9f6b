package chatworthy

// Row is one candidate note produced by parsing an uploaded transcript.
// Rows are transient: the client reviews and edits them, then submits the
// edited copies back to the apply endpoint. The same shape is used in both
// directions.
type Row struct {
	ImportKey  string   `json:"importKey"`
	FileName   string   `json:"fileName"`
	Title      string   `json:"title"`
	Subject    string   `json:"subject,omitempty"`
	Topic      string   `json:"topic,omitempty"`
	Markdown   string   `json:"markdown"`
	Tags       []string `json:"tags,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	PageURL    string   `json:"pageUrl,omitempty"`
	NoteID     string   `json:"chatworthyNoteId,omitempty"`
	ChatID     string   `json:"chatworthyChatId,omitempty"`
	ChatTitle  string   `json:"chatworthyChatTitle,omitempty"`
	TurnIndex  int      `json:"chatworthyTurnIndex"`
	TotalTurns int      `json:"chatworthyTotalTurns"`
}

// ConversationKey returns the identity key of the row's source conversation:
// the chat id when present, the exported file name otherwise.
func (r Row) ConversationKey() string {
	if r.ChatID != "" {
		return r.ChatID
	}
	return r.FileName
}
