package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lueurxax/meeto/internal/platform/textutil"
)

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	sentenceBreakRe = regexp.MustCompile(`[.!?]\s`)
)

// collapseWhitespace folds every whitespace run into one space and trims the ends.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// firstSentence returns the text before the first sentence terminator followed by whitespace.
func firstSentence(s string) string {
	loc := sentenceBreakRe.FindStringIndex(s)
	if loc == nil {
		return s
	}

	return s[:loc[0]]
}

// truncateDescription enforces the one-line length cap: 137 characters plus an ellipsis.
func truncateDescription(s string) string {
	if utf8.RuneCountInString(s) <= maxDescription {
		return s
	}

	return strings.TrimRightFunc(textutil.PrefixRunes(s, truncatedKeep), isSpace) + ellipsis
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}
