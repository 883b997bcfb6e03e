package utils

import (
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile("[^a-z0-9]+")

// Slugify turns an announcement title into a URL-safe slug:
// lowercased, runs of anything non-alphanumeric collapsed to a single
// hyphen, no leading or trailing hyphens.
func Slugify(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
