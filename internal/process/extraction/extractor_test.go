package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/meeto/internal/core/llm"
)

var errModelDown = errors.New("model down")

type scriptedCompleter struct {
	reply string
	err   error
	reqs  []llm.CompletionRequest
}

func (s *scriptedCompleter) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	s.reqs = append(s.reqs, req)

	return s.reply, s.err
}

const scenarioTranscript = "We need to update the pricing page. John will send the proposal by 2024-03-01."

func TestExtractor_ModelSuccess(t *testing.T) {
	model := &scriptedCompleter{reply: `{"tasks":[{"description":"Update the pricing page","priority":"high","confidence":0.9}]}`}
	e := NewExtractor(model, "llama-3.1-70b-versatile", nil)

	res := e.Extract(context.Background(), scenarioTranscript)

	assert.Equal(t, MethodModel, res.Method)
	assert.Equal(t, ParseStrict, res.Outcome)
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, "Update the pricing page", res.Tasks[0].Description)

	require.Len(t, model.reqs, 1)
	req := model.reqs[0]
	assert.InDelta(t, 0.1, req.Temperature, 1e-6)
	assert.True(t, req.JSONMode)
	assert.Equal(t, "llama-3.1-70b-versatile", req.Model)
	assert.Equal(t, llm.TaskExtractTasks, req.Task)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, `{"tasks": []}`)
	assert.Equal(t, llm.RoleUser, req.Messages[1].Role)
	assert.True(t, strings.HasSuffix(req.Messages[1].Content, "Transcript:\n"+scenarioTranscript))
}

func TestExtractor_TruncatesTranscript(t *testing.T) {
	model := &scriptedCompleter{reply: `{"tasks":[]}`}
	e := NewExtractor(model, "", nil)

	long := strings.Repeat("é", 25000)
	res := e.Extract(context.Background(), long)

	assert.Empty(t, res.Tasks)
	require.Len(t, model.reqs, 1)
	assert.True(t, strings.HasSuffix(model.reqs[0].Messages[1].Content, "Transcript:\n"+strings.Repeat("é", 20000)))
}

func TestExtractor_ModelErrorFallsBackToHeuristic(t *testing.T) {
	e := NewExtractor(&scriptedCompleter{err: errModelDown}, "", nil)

	res := e.Extract(context.Background(), scenarioTranscript)

	assert.Equal(t, MethodHeuristic, res.Method)
	require.Len(t, res.Tasks, 2)
	assert.Equal(t, "update the pricing page.", res.Tasks[0].Description)
	assert.Equal(t, "send the proposal by 2024-03-01.", res.Tasks[1].Description)
}

func TestExtractor_UnavailableUsesHeuristicDirectly(t *testing.T) {
	for _, client := range []llm.ChatCompleter{nil, llm.Unavailable{}} {
		res := NewExtractor(client, "", nil).Extract(context.Background(), scenarioTranscript)

		assert.Equal(t, MethodHeuristic, res.Method)
		assert.Len(t, res.Tasks, 2)
	}
}

func TestExtractor_GarbageIsEmptyNotHeuristic(t *testing.T) {
	e := NewExtractor(&scriptedCompleter{reply: "Sorry, I cannot help with that."}, "", nil)

	res := e.Extract(context.Background(), scenarioTranscript)

	assert.Equal(t, MethodModel, res.Method)
	assert.Equal(t, ParseEmpty, res.Outcome)
	assert.Empty(t, res.Tasks)
	assert.Equal(t, "empty", res.label())
}
