package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lueurxax/meeto/internal/core/domain"
)

// heuristicPatterns are tried in order; each capture runs up to and including a sentence terminator.
var heuristicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:need to|will|should|must|have to)\s+([^.!?]+[.!?])`),
	regexp.MustCompile(`(?i)action item[:\s]+([^.!?]+[.!?])`),
	regexp.MustCompile(`(?i)todo[:\s]+([^.!?]+[.!?])`),
	regexp.MustCompile(`(?i)task[:\s]+([^.!?]+[.!?])`),
}

// ExtractSimple mines action-item phrases from a transcript without a model.
// It never fails; no match yields an empty slice.
func ExtractSimple(transcript string) []domain.TaskRecord {
	tasks := make([]domain.TaskRecord, 0)

	for _, re := range heuristicPatterns {
		for _, m := range re.FindAllStringSubmatch(transcript, -1) {
			if len(tasks) == maxHeuristicTasks {
				return tasks
			}

			fragment, ok := heuristicFragment(m[1])
			if !ok {
				continue
			}

			tasks = append(tasks, domain.TaskRecord{
				Description: fragment,
				Priority:    domain.PriorityMedium,
				Confidence:  domain.DefaultConfidence,
			})
		}
	}

	return tasks
}

func heuristicFragment(capture string) (string, bool) {
	description := collapseWhitespace(capture)

	short := strings.TrimSpace(firstSentence(description))
	if utf8.RuneCountInString(short) <= minHeuristicLength {
		short = description
	}

	if utf8.RuneCountInString(short) < minHeuristicLength {
		return "", false
	}

	return truncateDescription(short), true
}
