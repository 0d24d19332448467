package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lueurxax/meeto/internal/core/domain"
)

var (
	politePrefixRe = regexp.MustCompile(`(?i)^(please|pls|kindly|could you|can you|would you|let's|let us|we should|we need to)\b[:,]?\s*`)
	weModalRe      = regexp.MustCompile(`(?i)^we\s+(should|will|need to)\s+`)
	ownerClauseRe  = regexp.MustCompile(`^([A-Z][a-zA-Z]+)\s+(will|shall|should|to)\s+(.*)$`)
)

// Normalize rewrites a candidate description into a one-line imperative and infers
// an owner from a leading "<Name> will ..." clause when none is known.
func Normalize(description, owner string) (string, string) {
	d := stripPrefixes(collapseWhitespace(description))

	if m := ownerClauseRe.FindStringSubmatch(d); m != nil {
		if owner == "" {
			owner = m[1]
		}

		d = strings.TrimSpace(m[3])
	}

	d = capitalizeFirst(d)
	d = collapseWhitespace(d)
	d = truncateDescription(d)

	return d, owner
}

// NormalizeRecord applies Normalize to a task record in place.
func NormalizeRecord(t *domain.TaskRecord) {
	t.Description, t.Owner = Normalize(t.Description, t.Owner)
}

// stripPrefixes removes politeness and group-modal lead-ins until none is left,
// so "Please, we should ..." loses both.
func stripPrefixes(d string) string {
	for {
		stripped := politePrefixRe.ReplaceAllString(d, "")
		stripped = weModalRe.ReplaceAllString(stripped, "")
		stripped = strings.TrimSpace(stripped)

		if stripped == d {
			return d
		}

		d = stripped
	}
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}
