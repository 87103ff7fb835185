package post

import (
	"regexp"
	"strings"
)

var (
	slugStripRe = regexp.MustCompile(`[^\p{L}\p{N}\s_-]`)
	slugDashRe  = regexp.MustCompile(`[-\s]+`)
)

// GenerateSlug derives a URL-friendly slug from a title: strip anything
// that is not a word character, whitespace or dash, collapse runs of
// whitespace/dashes into single dashes, trim edge dashes.
func GenerateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugDashRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
