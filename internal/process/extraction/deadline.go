package extraction

import (
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"

	"github.com/lueurxax/meeto/internal/core/domain"
)

// deadlineLayouts are tried in order: ISO, day-first dashed, day-first slashed, month-first slashed.
var deadlineLayouts = []string{
	"2006-1-2",
	"2-1-2006",
	"2/1/2006",
	"1/2/2006",
}

// NormalizeDeadline converts a deadline to YYYY-MM-DD. It returns "" for anything unparseable.
// Purely numeric dates must match one of the fixed layouts; dates that spell out the
// month ("March 1, 2024", "1 Mar 2024") go through dateparse.
func NormalizeDeadline(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(domain.DeadlineLayout)
		}
	}

	if !strings.ContainsFunc(raw, unicode.IsLetter) {
		return ""
	}

	t, err := dateparse.ParseStrict(raw)
	if err != nil {
		return ""
	}

	return t.Format(domain.DeadlineLayout)
}
