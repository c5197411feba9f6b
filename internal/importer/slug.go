// Package importer ingests edited preview rows into the note store:
// hierarchy resolution, slug allocation, note creation, and import batch
// recording. Apply processing is strictly sequential per batch.
package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLength = 60
	fallbackSlug  = "note"
)

// deaccenter decomposes characters and drops combining marks.
var deaccenter = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL-safe path segment from free text: lower-cased,
// diacritics stripped, non-alphanumeric runs replaced with single hyphens,
// bounded in length. An empty result falls back to "note".
func Slugify(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if stripped, _, err := transform.String(deaccenter, lowered); err == nil {
		lowered = stripped
	}

	var builder strings.Builder
	pendingHyphen := false
	for _, r := range lowered {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = builder.Len() > 0
			continue
		}
		if pendingHyphen {
			builder.WriteByte('-')
			pendingHyphen = false
		}
		builder.WriteRune(r)
	}

	slug := builder.String()
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		return fallbackSlug
	}
	return slug
}
