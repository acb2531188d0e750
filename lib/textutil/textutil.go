package textutil

import (
	"regexp"
	"strings"
)

var referenceRegex = regexp.MustCompile(`\[.*?\]`)

// collapseWhitespace replaces every run of unicode whitespace with a single
// space and trims both ends.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Clean normalizes text pulled out of wiki markup: whitespace runs (newlines
// and non-breaking spaces included) become single spaces and bracketed
// reference markers like "[1]" or "[citation needed]" are removed.
//
// Clean(Clean(s)) == Clean(s) for every s.
func Clean(text string) string {
	text = collapseWhitespace(text)
	text = referenceRegex.ReplaceAllString(text, "")
	return collapseWhitespace(text)
}

// NormalizeName lowercases a name and drops all whitespace so that names can be
// compared regardless of spacing and case.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	return strings.Join(strings.Fields(name), "")
}

// ContainsAll reports whether text contains every one of the given substrings.
func ContainsAll(text string, substrings []string) bool {
	for _, s := range substrings {
		if !strings.Contains(text, s) {
			return false
		}
	}
	return true
}
