package chatworthy

import (
	"regexp"
	"strings"
)

var (
	// tocRe matches the generator's table-of-contents block: the fixed
	// heading plus its run of numbered links to turn anchors.
	tocRe = regexp.MustCompile(`(?m)^## Table of Contents[ \t]*\n(?:[ \t]*\d+\.[ \t]+\[[^\]]*\]\(#p-\d+\)[ \t]*\n?)+`)

	// bareAnchorRe matches a line holding nothing but a turn anchor marker.
	bareAnchorRe = regexp.MustCompile(`(?m)^[ \t]*<a (?:id|name)="p-\d+"></a>[ \t]*\n?`)

	// metaLineRe matches generator meta lines.
	metaLineRe = regexp.MustCompile(`(?m)^[ \t]*(?:Source|Exported):[^\n]*\n?`)

	// blankRunRe matches a run of three or more blank lines.
	blankRunRe = regexp.MustCompile(`\n(?:[ \t]*\n){3,}`)
)

// TitleCandidates returns heading texts that count as a duplicated title for
// a document, in priority order: the "Subject - Topic" composite, the chat
// title, then the front-matter title.
func TitleCandidates(meta Meta) []string {
	var candidates []string
	subject := strings.TrimSpace(meta.Subject)
	topic := strings.TrimSpace(meta.Topic)
	if subject != "" && topic != "" {
		candidates = append(candidates, subject+" - "+topic)
	}
	for _, c := range []string{meta.ChatTitle, meta.Title} {
		if strings.TrimSpace(c) != "" {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// Strip removes generator-added boilerplate from a body or body section:
// the table-of-contents block, bare anchor-marker lines, Source:/Exported:
// meta lines, at most one leading top-level heading duplicating a title
// candidate, then collapses long blank runs and trims trailing whitespace.
func Strip(section string, titleCandidates []string) string {
	out := tocRe.ReplaceAllString(section, "")
	out = bareAnchorRe.ReplaceAllString(out, "")
	out = metaLineRe.ReplaceAllString(out, "")
	out = stripDuplicateTitle(out, titleCandidates)
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	return strings.TrimRight(out, " \t\n")
}

// stripDuplicateTitle removes at most one leading level-1 heading whose text
// case-insensitively matches a title candidate. Candidates are tried in
// order and the first match wins; later headings with the same text are
// left alone.
func stripDuplicateTitle(text string, candidates []string) string {
	if len(candidates) == 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	idx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			idx = i
			break
		}
	}
	if idx == -1 {
		return text
	}

	heading := strings.TrimSpace(lines[idx])
	if !strings.HasPrefix(heading, "# ") {
		return text
	}
	headingText := strings.TrimSpace(strings.TrimPrefix(heading, "# "))

	for _, candidate := range candidates {
		if strings.EqualFold(headingText, strings.TrimSpace(candidate)) {
			rest := make([]string, 0, len(lines)-1)
			rest = append(rest, lines[:idx]...)
			rest = append(rest, lines[idx+1:]...)
			return strings.Join(rest, "\n")
		}
	}
	return text
}
