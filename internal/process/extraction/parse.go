package extraction

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lueurxax/meeto/internal/core/domain"
	"github.com/lueurxax/meeto/internal/core/errors"
)

// ParseOutcome records which stage of response parsing produced the tasks.
type ParseOutcome int

const (
	// ParseStrict means the whole response was a valid task envelope.
	ParseStrict ParseOutcome = iota
	// ParseRecovered means a task envelope was cut out of surrounding text.
	ParseRecovered
	// ParseEmpty means nothing usable was found; the task list is empty.
	ParseEmpty
)

func (o ParseOutcome) String() string {
	switch o {
	case ParseStrict:
		return "strict"
	case ParseRecovered:
		return "recovered"
	case ParseEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

var envelopeStartRe = regexp.MustCompile(`\{\s*"tasks"`)

// ParseTasks turns a model response into cleaned task records.
// It never fails: unusable output yields ParseEmpty and no tasks.
func ParseTasks(content string) ([]domain.TaskRecord, ParseOutcome) {
	if raw, err := decodeEnvelope(content); err == nil {
		return cleanTasks(raw), ParseStrict
	}

	for _, candidate := range recoveryCandidates(content) {
		if raw, err := decodeEnvelope(candidate); err == nil {
			return cleanTasks(raw), ParseRecovered
		}
	}

	return []domain.TaskRecord{}, ParseEmpty
}

// decodeEnvelope accepts only a JSON object whose "tasks" member is absent, null, or a list.
func decodeEnvelope(s string) ([]json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &envelope); err != nil {
		return nil, fmt.Errorf("decode task envelope: %w", err)
	}

	if envelope == nil {
		return nil, fmt.Errorf("decode task envelope: %w", errors.ErrInvalidInput)
	}

	rawTasks, ok := envelope["tasks"]
	if !ok {
		return nil, nil
	}

	var tasks []json.RawMessage
	if err := json.Unmarshal(rawTasks, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks list: %w", err)
	}

	return tasks, nil
}

// recoveryCandidates returns substrings that may hold the task envelope, best guess first:
// the balanced object starting at `{"tasks"`, then everything up to the last closing brace.
func recoveryCandidates(content string) []string {
	loc := envelopeStartRe.FindStringIndex(content)
	if loc == nil {
		return nil
	}

	start := loc[0]

	var candidates []string

	if end := matchingBrace(content, start); end > start {
		candidates = append(candidates, content[start:end+1])
	}

	if last := strings.LastIndex(content, "}"); last > start {
		greedy := content[start : last+1]
		if len(candidates) == 0 || candidates[0] != greedy {
			candidates = append(candidates, greedy)
		}
	}

	return candidates
}

// matchingBrace returns the index of the brace closing the object opened at start, or -1.
func matchingBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}

			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// cleanTasks coerces raw task objects into records. Entries that are not objects are skipped.
func cleanTasks(raw []json.RawMessage) []domain.TaskRecord {
	tasks := make([]domain.TaskRecord, 0, len(raw))

	for _, item := range raw {
		var fields map[string]any
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			continue
		}

		tasks = append(tasks, domain.TaskRecord{
			Description: cleanDescription(fields["description"]),
			Owner:       cleanOwner(fields["owner"]),
			Deadline:    cleanDeadline(fields["deadline"]),
			Priority:    cleanPriority(fields["priority"]),
			Confidence:  coerceConfidence(fields["confidence"]),
		})
	}

	return tasks
}

func cleanDescription(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}

	desc := collapseWhitespace(s)
	if len([]rune(desc)) <= maxDescription {
		return desc
	}

	if first := strings.TrimSpace(firstSentence(desc)); len([]rune(first)) >= minSentenceFragment {
		desc = first
	}

	return truncateDescription(desc)
}

func cleanOwner(v any) string {
	switch o := v.(type) {
	case string:
		return strings.TrimSpace(o)
	case float64:
		return strconv.FormatFloat(o, 'f', -1, 64)
	default:
		return ""
	}
}

func cleanDeadline(v any) string {
	switch d := v.(type) {
	case string:
		return NormalizeDeadline(d)
	default:
		return ""
	}
}

func cleanPriority(v any) domain.Priority {
	s, ok := v.(string)
	if !ok {
		return domain.PriorityMedium
	}

	return domain.ParsePriority(s)
}

// coerceConfidence accepts numbers, numeric strings, and booleans; anything else is 0.5.
// The result is clamped to [0,1] and rounded to two decimals.
func coerceConfidence(v any) float64 {
	c := domain.DefaultConfidence

	switch x := v.(type) {
	case float64:
		c = x
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			c = parsed
		}
	case bool:
		if x {
			c = 1
		} else {
			c = 0
		}
	}

	if math.IsNaN(c) || math.IsInf(c, 0) {
		c = domain.DefaultConfidence
	}

	c = math.Max(confidenceMin, math.Min(confidenceMax, c))

	return math.Round(c*confidencePrecision) / confidencePrecision
}
