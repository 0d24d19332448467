package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/meeto/internal/platform/config"
)

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		GroqBaseURL:   "https://api.groq.com/openai/v1",
		OllamaBaseURL: "http://localhost:11434/v1",
		OllamaModel:   "llama3.2",
		RateLimitRPS:  100,
	}
}

type capturedChatRequest struct {
	Model          string  `json:"model"`
	Temperature    float32 `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newChatServer(t *testing.T, content string, captured *capturedChatRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  captured.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestOpenAICompatible_GroqRequestShape(t *testing.T) {
	var captured capturedChatRequest

	srv := newChatServer(t, `{"tasks":[]}`, &captured)

	cfg := testLLMConfig()
	cfg.GroqAPIKey = "gsk-test"
	cfg.GroqBaseURL = srv.URL + "/v1"
	cfg.Model = "gpt-4o-mini"

	p := NewGroqProvider(cfg, nil)

	got, err := p.Complete(context.Background(), CompletionRequest{
		Messages:    []Message{System("be strict"), User("transcript")},
		Temperature: 0.1,
		JSONMode:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"tasks":[]}`, got)

	assert.Equal(t, defaultGroqModel, captured.Model)
	assert.InDelta(t, 0.1, captured.Temperature, 0.0001)
	require.NotNil(t, captured.ResponseFormat)
	assert.Equal(t, "json_object", captured.ResponseFormat.Type)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "be strict", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestOpenAICompatible_OllamaSkipsJSONMode(t *testing.T) {
	var captured capturedChatRequest

	srv := newChatServer(t, "minutes", &captured)

	cfg := testLLMConfig()
	cfg.LocalModeEnabled = true
	cfg.OllamaBaseURL = srv.URL + "/v1"

	p := NewOllamaProvider(cfg, nil)

	got, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{User("transcript")},
		JSONMode: true,
		Model:    "gpt-4o",
	})
	require.NoError(t, err)
	assert.Equal(t, "minutes", got)
	assert.Equal(t, "llama3.2", captured.Model)
	assert.Nil(t, captured.ResponseFormat)
}

func TestOpenAICompatible_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	cfg := testLLMConfig()
	cfg.OpenAIAPIKey = "sk-bad"
	cfg.OpenAIBaseURL = srv.URL + "/v1"

	_, err := NewOpenAIProvider(cfg, nil).Complete(context.Background(), CompletionRequest{Messages: []Message{User("x")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai chat completion")
}

func TestGroqModel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: defaultGroqModel},
		{in: "gpt-4o-mini", want: defaultGroqModel},
		{in: "llama-3.3-70b", want: "llama-3.3-70b"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, groqModel(tt.in), tt.in)
	}
}

func TestSplitSystem(t *testing.T) {
	system, turns := splitSystem([]Message{System("a"), User("u"), System("b")})

	assert.Equal(t, "a\n\nb", system)
	assert.Equal(t, []Message{User("u")}, turns)
}

func TestOpenAIProvider_IgnoresForeignModel(t *testing.T) {
	var captured capturedChatRequest

	srv := newChatServer(t, "ok", &captured)

	cfg := testLLMConfig()
	cfg.OpenAIAPIKey = "sk-test"
	cfg.OpenAIBaseURL = srv.URL + "/v1"
	cfg.Model = "llama-3.1-70b-versatile"

	p := NewOpenAIProvider(cfg, nil)

	_, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{User("x")},
		Model:    cfg.Model,
	})
	require.NoError(t, err)
	assert.Equal(t, defaultOpenAIModel, captured.Model)

	_, err = p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{User("x")},
		Model:    "gpt-4o",
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", captured.Model)
}

func TestOpenAIModel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: defaultOpenAIModel},
		{in: "llama-3.1-70b-versatile", want: defaultOpenAIModel},
		{in: "claude-haiku-4.5", want: defaultOpenAIModel},
		{in: "gpt-4o", want: "gpt-4o"},
		{in: "o3-mini", want: "o3-mini"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, openAIModel(tt.in), tt.in)
		assert.Equal(t, tt.want, resolveOpenAIModel(tt.in, defaultOpenAIModel), tt.in)
	}
}
