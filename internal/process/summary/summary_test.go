package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/meeto/internal/core/llm"
)

type recordingCompleter struct {
	reply string
	err   error
	reqs  []llm.CompletionRequest
}

func (r *recordingCompleter) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	r.reqs = append(r.reqs, req)

	return r.reply, r.err
}

func TestGenerate_Model(t *testing.T) {
	model := &recordingCompleter{reply: "\n  Decisions:\n- Ship Friday\n"}
	g := New(model, "gpt-4o-mini", nil)

	got := g.Generate(context.Background(), "We decided to ship Friday.")

	assert.Equal(t, "Decisions:\n- Ship Friday", got)
	require.Len(t, model.reqs, 1)

	req := model.reqs[0]
	assert.InDelta(t, 0.2, req.Temperature, 1e-6)
	assert.False(t, req.JSONMode)
	assert.Equal(t, llm.TaskSummarize, req.Task)
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Equal(t, summarySystemPrompt, req.Messages[0].Content)
	assert.True(t, strings.HasSuffix(req.Messages[1].Content, "Transcript:\nWe decided to ship Friday."))
}

func TestGenerate_SampleLimit(t *testing.T) {
	model := &recordingCompleter{reply: "ok"}
	g := New(model, "", nil)

	g.Generate(context.Background(), strings.Repeat("ü", 15000))

	require.Len(t, model.reqs, 1)
	assert.True(t, strings.HasSuffix(model.reqs[0].Messages[1].Content, "Transcript:\n"+strings.Repeat("ü", 12000)))
}

func TestGenerate_Fallbacks(t *testing.T) {
	long := "  " + strings.Repeat("a", 450) + "  "

	tests := []struct {
		name   string
		client llm.ChatCompleter
		in     string
		want   string
	}{
		{name: "nil client short", client: nil, in: "  short meeting  ", want: "short meeting"},
		{name: "unavailable long", client: llm.Unavailable{}, in: long, want: strings.Repeat("a", 400) + "..."},
		{name: "model error", client: &recordingCompleter{err: errors.New("boom")}, in: long, want: strings.Repeat("a", 400) + "..."},
		{name: "blank model reply", client: &recordingCompleter{reply: "   "}, in: "tiny", want: "tiny"},
		{name: "exactly limit", client: nil, in: strings.Repeat("b", 400), want: strings.Repeat("b", 400)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.client, "", nil).Generate(context.Background(), tt.in))
		})
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "", Excerpt("   ", 10))
	assert.Equal(t, "héllo", Excerpt("héllo", 5))
	assert.Equal(t, "hél...", Excerpt("héllo", 3))
}
