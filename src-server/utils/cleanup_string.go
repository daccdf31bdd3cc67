package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CleanupTitle normalizes a user-entered event title: strip spaces,
// title-case, drop the trailing period.
func CleanupTitle(s string) string {
	s = strings.TrimSpace(s)
	s = cases.Title(language.English).String(s)
	s = strings.TrimSuffix(s, ".")
	return s
}

// CleanupTag lowercases and trims a tag so "Music " and "music" don't
// end up as two tags.
func CleanupTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
