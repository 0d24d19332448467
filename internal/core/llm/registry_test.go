package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/lueurxax/meeto/internal/core/errors"
)

var errProviderDown = errors.New("provider down")

type fakeProvider struct {
	name     ProviderName
	priority int
	reply    string
	err      error
	calls    int
	lastReq  CompletionRequest
}

func (f *fakeProvider) Name() ProviderName { return f.name }
func (f *fakeProvider) IsAvailable() bool  { return true }
func (f *fakeProvider) Priority() int      { return f.priority }

func (f *fakeProvider) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.calls++
	f.lastReq = req

	return f.reply, f.err
}

var testCircuitCfg = CircuitBreakerConfig{Threshold: 2, ResetAfter: time.Minute}

func TestRegistry_OrdersByPriority(t *testing.T) {
	r := NewRegistry(nil)

	low := &fakeProvider{name: ProviderGoogle, priority: PriorityFourthFallback, reply: "google"}
	high := &fakeProvider{name: ProviderGroq, priority: PriorityPrimary, reply: "groq"}

	r.Register(low, testCircuitCfg)
	r.Register(high, testCircuitCfg)

	got, err := r.Complete(context.Background(), CompletionRequest{Messages: []Message{User("hi")}, Task: TaskComplete})
	require.NoError(t, err)
	assert.Equal(t, "groq", got)
	assert.Equal(t, 0, low.calls)

	statuses := r.GetProviderStatuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, ProviderGroq, statuses[0].Name)
	assert.Equal(t, ProviderGoogle, statuses[1].Name)
}

func TestRegistry_FallsBackOnError(t *testing.T) {
	r := NewRegistry(nil)

	primary := &fakeProvider{name: ProviderGroq, priority: PriorityPrimary, err: errProviderDown}
	fallback := &fakeProvider{name: ProviderOpenAI, priority: PriorityFallback, reply: `{"tasks":[]}`}

	r.Register(primary, testCircuitCfg)
	r.Register(fallback, testCircuitCfg)

	req := CompletionRequest{Messages: []Message{System("sys"), User("hi")}, Temperature: 0.1, JSONMode: true, Task: TaskExtractTasks}

	got, err := r.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `{"tasks":[]}`, got)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, req, fallback.lastReq)
}

func TestRegistry_AllProvidersFail(t *testing.T) {
	r := NewRegistry(nil)

	r.Register(&fakeProvider{name: ProviderGroq, priority: PriorityPrimary, err: errProviderDown}, testCircuitCfg)
	r.Register(&fakeProvider{name: ProviderOpenAI, priority: PriorityFallback, err: errProviderDown}, testCircuitCfg)

	_, err := r.Complete(context.Background(), CompletionRequest{Task: TaskComplete})
	require.Error(t, err)
	assert.ErrorIs(t, err, coreerrors.ErrAllProvidersFailed)
	assert.ErrorIs(t, err, errProviderDown)
}

func TestRegistry_Empty(t *testing.T) {
	_, err := NewRegistry(nil).Complete(context.Background(), CompletionRequest{})
	assert.ErrorIs(t, err, coreerrors.ErrNoProvidersAvailable)
}

func TestRegistry_CircuitBreakerSkipsProvider(t *testing.T) {
	r := NewRegistry(nil)

	failing := &fakeProvider{name: ProviderGroq, priority: PriorityPrimary, err: errProviderDown}
	healthy := &fakeProvider{name: ProviderOpenAI, priority: PriorityFallback, reply: "ok"}

	r.Register(failing, testCircuitCfg)
	r.Register(healthy, testCircuitCfg)

	for range 4 {
		_, err := r.Complete(context.Background(), CompletionRequest{Task: TaskComplete})
		require.NoError(t, err)
	}

	// Threshold is 2: the third and fourth calls must skip the failing provider.
	assert.Equal(t, 2, failing.calls)
	assert.Equal(t, 4, healthy.calls)
	assert.True(t, r.GetProviderStatuses()[0].CircuitOpen)
}

func TestCircuitBreaker_ResetsAfterTimeout(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	cb := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 1, ResetAfter: time.Minute}, nil)
	cb.now = func() time.Time { return now }

	assert.True(t, cb.RecordFailure(ProviderGroq))
	assert.False(t, cb.CanAttempt())
	require.ErrorIs(t, cb.CheckCircuit(), coreerrors.ErrCircuitBreakerOpen)

	now = now.Add(time.Minute)

	assert.True(t, cb.CanAttempt())
	assert.NoError(t, cb.CheckCircuit())

	cb.RecordSuccess()
	cb.Reset()
	assert.False(t, cb.IsOpen())
}

func TestNew_NoProvidersIsUnavailable(t *testing.T) {
	c := New(context.Background(), testLLMConfig(), nil)

	assert.False(t, IsAvailable(c))

	_, err := c.Complete(context.Background(), CompletionRequest{})
	assert.ErrorIs(t, err, coreerrors.ErrModelUnavailable)
	assert.NoError(t, Close(c))
}

func TestNew_RegistersConfiguredProviders(t *testing.T) {
	cfg := testLLMConfig()
	cfg.GroqAPIKey = "gsk-test"
	cfg.OpenAIAPIKey = "sk-test"
	cfg.LocalModeEnabled = true

	c := New(context.Background(), cfg, nil)
	require.True(t, IsAvailable(c))

	r, ok := c.(*Registry)
	require.True(t, ok)

	var names []ProviderName
	for _, s := range r.GetProviderStatuses() {
		names = append(names, s.Name)
	}

	assert.Equal(t, []ProviderName{ProviderGroq, ProviderOpenAI, ProviderOllama}, names)
}

func TestIsAvailable(t *testing.T) {
	assert.False(t, IsAvailable(nil))
	assert.False(t, IsAvailable(Unavailable{}))
	assert.False(t, IsAvailable(&Unavailable{}))
	assert.False(t, IsAvailable(NewRegistry(nil)))
	assert.True(t, IsAvailable(&fakeProvider{}))
}
