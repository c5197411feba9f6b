package chatworthy

import "regexp"

// Section is one conversation turn carved out of a document body.
type Section struct {
	TurnIndex int // 1-based discovery order, not the anchor's declared ordinal
	Text      string
}

// anchorRe matches a turn anchor marker at the start of a line. Current
// exports write id=, older ones name=.
var anchorRe = regexp.MustCompile(`(?m)^<a (?:id|name)="p-\d+"></a>`)

// Split partitions a document body at turn anchor markers. Each section runs
// from its anchor to the next anchor (or end of document). A body with no
// anchors is returned whole as a single section with index 1. The anchor's
// declared ordinal is ignored; positional order of discovery is what counts.
func Split(body string) []Section {
	locs := anchorRe.FindAllStringIndex(body, -1)
	if len(locs) == 0 {
		return []Section{{TurnIndex: 1, Text: body}}
	}

	sections := make([]Section, 0, len(locs))
	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		sections = append(sections, Section{
			TurnIndex: i + 1,
			Text:      body[loc[0]:end],
		})
	}
	return sections
}

// HasAnchors reports whether the body contains any turn anchor markers.
func HasAnchors(body string) bool {
	return anchorRe.MatchString(body)
}

// CountAnchors returns the number of turn anchor markers in the body.
func CountAnchors(body string) int {
	return len(anchorRe.FindAllStringIndex(body, -1))
}
