package util

import (
	"strings"
	"unicode/utf8"
)

// MaxTagLength is the longest tag title the tags table stores, in characters.
const MaxTagLength = 100

// ParseTagString splits a comma separated tag field into tag titles.
// Tokens are trimmed, tokens that are empty after trimming are skipped and
// exact duplicates are dropped, keeping first-seen order.
func ParseTagString(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	seen := make(map[string]bool)
	var titles []string
	for _, token := range strings.Split(raw, ",") {
		title := strings.TrimSpace(token)
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		titles = append(titles, title)
	}
	return titles
}

// JoinTagTitles renders tag titles back into the form field representation.
func JoinTagTitles(titles []string) string {
	return strings.Join(titles, ", ")
}

// TagTitlesFit reports whether every parsed tag title fits in MaxTagLength.
func TagTitlesFit(raw string) bool {
	for _, title := range ParseTagString(raw) {
		if utf8.RuneCountInString(title) > MaxTagLength {
			return false
		}
	}
	return true
}
