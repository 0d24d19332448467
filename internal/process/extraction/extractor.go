package extraction

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lueurxax/meeto/internal/core/domain"
	"github.com/lueurxax/meeto/internal/core/llm"
	"github.com/lueurxax/meeto/internal/platform/observability"
	"github.com/lueurxax/meeto/internal/platform/textutil"
)

// Method names the extractor path that produced a Result.
type Method string

const (
	MethodModel     Method = "model"
	MethodHeuristic Method = "heuristic"
)

// Result is the output of one extraction.
type Result struct {
	Tasks   []domain.TaskRecord
	Method  Method
	Outcome ParseOutcome
}

// label is the metrics/log label for the result path.
func (r Result) label() string {
	if r.Method == MethodHeuristic {
		return string(MethodHeuristic)
	}

	return r.Outcome.String()
}

// Extractor pulls candidate tasks out of a transcript with the chat model,
// falling back to sentence heuristics when the model is unavailable or fails.
type Extractor struct {
	llmClient llm.ChatCompleter
	llmModel  string
	logger    *zerolog.Logger
}

// NewExtractor returns an Extractor. A nil client means heuristics only.
func NewExtractor(client llm.ChatCompleter, model string, logger *zerolog.Logger) *Extractor {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}

	if client == nil {
		client = llm.Unavailable{}
	}

	return &Extractor{
		llmClient: client,
		llmModel:  model,
		logger:    logger,
	}
}

// Extract returns task records for a transcript. Model failures degrade to the
// heuristic extractor and are never returned to the caller.
func (e *Extractor) Extract(ctx context.Context, transcript string) Result {
	res := e.extract(ctx, transcript)

	observability.ExtractionRuns.WithLabelValues(res.label()).Inc()

	return res
}

func (e *Extractor) extract(ctx context.Context, transcript string) Result {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = e.logger
	}

	if !llm.IsAvailable(e.llmClient) {
		logger.Info().Msg(logMsgModelMissing)

		return e.heuristic(logger, transcript)
	}

	sample := textutil.PrefixRunes(transcript, maxTranscriptSample)

	content, err := e.llmClient.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			llm.System(extractionSystemPrompt),
			llm.User(fmt.Sprintf(extractionUserPromptFmt, sample)),
		},
		Temperature: extractTemperature,
		JSONMode:    true,
		Model:       e.llmModel,
		Task:        llm.TaskExtractTasks,
	})
	if err != nil {
		logger.Warn().Err(err).Msg(logMsgModelFailed)

		return e.heuristic(logger, transcript)
	}

	tasks, outcome := ParseTasks(content)

	if outcome == ParseEmpty {
		logger.Warn().Str(logKeyRaw, content).Msg(logMsgRecoveryFailed)
	}

	logger.Debug().
		Str(logKeyOutcome, outcome.String()).
		Int(logKeyTaskCount, len(tasks)).
		Int(logKeySampleChars, len([]rune(sample))).
		Msg(logMsgParsed)

	return Result{Tasks: tasks, Method: MethodModel, Outcome: outcome}
}

func (e *Extractor) heuristic(logger *zerolog.Logger, transcript string) Result {
	tasks := ExtractSimple(transcript)

	logger.Debug().Int(logKeyTaskCount, len(tasks)).Msg(logMsgHeuristicResult)

	return Result{Tasks: tasks, Method: MethodHeuristic, Outcome: ParseStrict}
}
