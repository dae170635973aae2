package collections

import (
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a display name into a URL-safe identifier: lower-cased, runs
// of non-alphanumerics collapsed to single hyphens, edges trimmed. Inputs
// with nothing usable yield "collection".
func Slugify(value string) string {
	if strings.TrimSpace(value) == "" {
		return "collection"
	}
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(value), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "collection"
	}
	return slug
}
