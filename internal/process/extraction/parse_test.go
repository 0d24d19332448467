package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/meeto/internal/core/domain"
)

func TestParseTasks_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantOutcome ParseOutcome
		wantDescs   []string
	}{
		{
			name:        "strict envelope",
			content:     `{"tasks":[{"description":"Send the deck","owner":"John","priority":"high","confidence":0.9}]}`,
			wantOutcome: ParseStrict,
			wantDescs:   []string{"Send the deck"},
		},
		{
			name:        "strict empty list",
			content:     `{"tasks": []}`,
			wantOutcome: ParseStrict,
			wantDescs:   []string{},
		},
		{
			name:        "strict without tasks member",
			content:     `{"items": [{"description":"ignored"}]}`,
			wantOutcome: ParseStrict,
			wantDescs:   []string{},
		},
		{
			name:        "strict null tasks",
			content:     `{"tasks": null}`,
			wantOutcome: ParseStrict,
			wantDescs:   []string{},
		},
		{
			name:        "recovered from prose",
			content:     "Sure! Here is the JSON:\n{\"tasks\": [{\"description\": \"Fix the build\"}]}\nLet me know {if} you need more.",
			wantOutcome: ParseRecovered,
			wantDescs:   []string{"Fix the build"},
		},
		{
			name:        "recovered from markdown fence",
			content:     "```json\n{\"tasks\": [{\"description\": \"Book the room\"}]}\n```",
			wantOutcome: ParseRecovered,
			wantDescs:   []string{"Book the room"},
		},
		{
			name:        "recovered with braces inside strings",
			content:     `Result: {"tasks":[{"description":"Escape the \"}\" brace"}]} trailing }`,
			wantOutcome: ParseRecovered,
			wantDescs:   []string{`Escape the "}" brace`},
		},
		{
			name:        "non-object entries skipped",
			content:     `{"tasks":[1,"a",null,{"description":"Ship it"}]}`,
			wantOutcome: ParseStrict,
			wantDescs:   []string{"Ship it"},
		},
		{name: "plain prose", content: "I could not find any tasks.", wantOutcome: ParseEmpty, wantDescs: []string{}},
		{name: "truncated json", content: `{"tasks": [ {"description": "x"`, wantOutcome: ParseEmpty, wantDescs: []string{}},
		{name: "top-level array", content: `[{"description":"x"}]`, wantOutcome: ParseEmpty, wantDescs: []string{}},
		{name: "tasks not a list", content: `{"tasks": "none"}`, wantOutcome: ParseEmpty, wantDescs: []string{}},
		{name: "empty string", content: "", wantOutcome: ParseEmpty, wantDescs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, outcome := ParseTasks(tt.content)

			assert.Equal(t, tt.wantOutcome, outcome, outcome.String())
			require.NotNil(t, tasks)

			descs := make([]string, 0, len(tasks))
			for _, task := range tasks {
				descs = append(descs, task.Description)
			}

			assert.Equal(t, tt.wantDescs, descs)
		})
	}
}

func TestParseTasks_FieldCleanup(t *testing.T) {
	content := `{"tasks":[
		{"description":"  Send\n the   deck ","owner":"John","deadline":"01/03/2024","priority":"HIGH","confidence":0.876},
		{"description":"Review PR","owner":null,"deadline":"next week","priority":"urgent","confidence":"0.3"},
		{"description":42,"owner":"","deadline":null,"confidence":null}
	]}`

	tasks, outcome := ParseTasks(content)
	require.Equal(t, ParseStrict, outcome)
	require.Len(t, tasks, 3)

	assert.Equal(t, domain.TaskRecord{
		Description: "Send the deck",
		Owner:       "John",
		Deadline:    "2024-03-01",
		Priority:    domain.PriorityHigh,
		Confidence:  0.88,
	}, tasks[0])

	assert.Equal(t, domain.TaskRecord{
		Description: "Review PR",
		Priority:    domain.PriorityMedium,
		Confidence:  0.3,
	}, tasks[1])

	assert.Equal(t, domain.TaskRecord{
		Priority:   domain.PriorityMedium,
		Confidence: 0.5,
	}, tasks[2])
}

func TestCleanDescription(t *testing.T) {
	longTail := strings.Repeat("more detail ", 15)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "short untouched", in: "Update the page", want: "Update the page"},
		{name: "first sentence kept", in: "Prepare the quarterly budget review. " + longTail, want: "Prepare the quarterly budget review"},
		{name: "short first sentence ignored", in: "Fix it. " + longTail, want: truncateDescription("Fix it. " + strings.TrimSpace(longTail))},
		{name: "no sentence break", in: strings.Repeat("word ", 40), want: strings.Repeat("word ", 27) + "wo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanDescription(tt.in)

			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), 140)
		})
	}
}

func TestCoerceConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{name: "number rounded", in: 0.876, want: 0.88},
		{name: "numeric string", in: " 0.3 ", want: 0.3},
		{name: "garbage string", in: "high", want: 0.5},
		{name: "missing", in: nil, want: 0.5},
		{name: "true", in: true, want: 1},
		{name: "false", in: false, want: 0},
		{name: "zero kept", in: 0.0, want: 0},
		{name: "clamped high", in: 1.7, want: 1},
		{name: "clamped low", in: -2.0, want: 0},
		{name: "object", in: map[string]any{}, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, coerceConfidence(tt.in), 1e-9)
		})
	}
}

func TestNormalizeDeadline(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "2024-03-01", want: "2024-03-01"},
		{in: "2024-3-5", want: "2024-03-05"},
		{in: "01-03-2024", want: "2024-03-01"},
		{in: "25/12/2024", want: "2024-12-25"},
		{in: "12/25/2024", want: "2024-12-25"},
		{in: "03/04/2024", want: "2024-04-03"},
		{in: " 2024-03-01 ", want: "2024-03-01"},
		{in: "March 1, 2024", want: "2024-03-01"},
		{in: "2024/13/45", want: ""},
		{in: "31/02/2024", want: ""},
		{in: "next friday", want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDeadline(tt.in))
		})
	}
}

func TestRecoveryCandidates(t *testing.T) {
	content := `noise {"tasks":[{"description":"a"}]} more {"x":1}`

	got := recoveryCandidates(content)

	require.Len(t, got, 2)
	assert.Equal(t, `{"tasks":[{"description":"a"}]}`, got[0])
	assert.Equal(t, `{"tasks":[{"description":"a"}]} more {"x":1}`, got[1])
	assert.Nil(t, recoveryCandidates("no envelope here"))
}
