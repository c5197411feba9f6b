// Package chatworthy parses exported chat-transcript markdown: front matter,
// turn anchors, boilerplate stripping, and preview-row assembly. Everything
// here is pure parsing; nothing writes to the store.
package chatworthy

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"
)

// TagList normalizes the tags front-matter field, which exports write either
// as a YAML list or as a single comma-separated string.
type TagList []string

// UnmarshalYAML accepts both forms and normalizes to a trimmed,
// de-duplicated list.
func (t *TagList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*t = normalizeTags(strings.Split(single, ","))
		return nil
	}

	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*t = normalizeTags(many)
	return nil
}

func normalizeTags(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	var tags []string
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// Meta holds the front-matter fields of an exported transcript file.
type Meta struct {
	NoteID    string  `yaml:"noteId"`
	ChatID    string  `yaml:"chatId"`
	Title     string  `yaml:"title"`
	ChatTitle string  `yaml:"chatTitle"`
	Subject   string  `yaml:"subject"`
	Topic     string  `yaml:"topic"`
	Tags      TagList `yaml:"tags"`
	Summary   string  `yaml:"summary"`
	PageURL   string  `yaml:"pageUrl"`
}

// Extract splits the leading YAML front-matter block from the document body.
// A missing or malformed block is not an error: the meta comes back
// zero-valued and the body is the whole document.
func Extract(content []byte) (Meta, string) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(content), &meta)
	if err != nil {
		return Meta{}, string(content)
	}
	return meta, string(body)
}
