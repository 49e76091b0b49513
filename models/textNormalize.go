package models

import (
	"regexp"
	"strings"
)

// \s does not cover NBSP, which shows up in copy-pasted listing titles.
var whitespaceRun = regexp.MustCompile(`[\s\x{00A0}\x{3000}]+`)

// NormalizeTitle trims the string and collapses every internal whitespace run
// to a single space. Every regex in lot extraction and classification runs on
// normalized text so word boundaries behave the same regardless of how the
// source sheet was formatted.
func NormalizeTitle(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
