// Package summary turns a meeting transcript into short minutes.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lueurxax/meeto/internal/core/llm"
	"github.com/lueurxax/meeto/internal/platform/observability"
	"github.com/lueurxax/meeto/internal/platform/textutil"
)

const (
	maxTranscriptSample = 12000
	fallbackLength      = 400
	summaryTemperature  = 0.2
	ellipsis            = "..."

	outcomeModel    = "model"
	outcomeFallback = "fallback"

	summarySystemPrompt = "You are an assistant that summarizes meeting transcripts into concise minutes with bullets."

	summaryUserPromptFmt = "Produce concise meeting minutes from the transcript below. " +
		"Respond with short bullet points under these headings (if present): Attendees, Decisions, " +
		"Action Items (one-line per item), Key Takeaways. Action items must be one-line, start with a verb, " +
		"and be under 140 characters. Do not add any tasks not present in the transcript. Transcript:\n%s"

	logMsgSummaryFailed = "summary generation failed, using transcript excerpt"
	logMsgSummaryEmpty  = "model returned an empty summary, using transcript excerpt"
)

// Generator writes meeting minutes with the chat model.
type Generator struct {
	llmClient llm.ChatCompleter
	llmModel  string
	logger    *zerolog.Logger
}

// New returns a Generator. A nil client always yields the transcript excerpt.
func New(client llm.ChatCompleter, model string, logger *zerolog.Logger) *Generator {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}

	if client == nil {
		client = llm.Unavailable{}
	}

	return &Generator{llmClient: client, llmModel: model, logger: logger}
}

// Generate returns plain-text minutes for the transcript. Without a working
// model it returns the start of the transcript instead; it never fails.
func (g *Generator) Generate(ctx context.Context, transcript string) string {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = g.logger
	}

	if !llm.IsAvailable(g.llmClient) {
		return g.fallback(transcript)
	}

	sample := textutil.PrefixRunes(transcript, maxTranscriptSample)

	content, err := g.llmClient.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			llm.System(summarySystemPrompt),
			llm.User(fmt.Sprintf(summaryUserPromptFmt, sample)),
		},
		Temperature: summaryTemperature,
		Model:       g.llmModel,
		Task:        llm.TaskSummarize,
	})
	if err != nil {
		logger.Warn().Err(err).Msg(logMsgSummaryFailed)

		return g.fallback(transcript)
	}

	minutes := strings.TrimSpace(content)
	if minutes == "" {
		logger.Warn().Msg(logMsgSummaryEmpty)

		return g.fallback(transcript)
	}

	observability.SummaryRuns.WithLabelValues(outcomeModel).Inc()

	return minutes
}

func (g *Generator) fallback(transcript string) string {
	observability.SummaryRuns.WithLabelValues(outcomeFallback).Inc()

	return Excerpt(transcript, fallbackLength)
}

// Excerpt returns the first n characters of the trimmed text, with an
// ellipsis when anything was cut.
func Excerpt(text string, n int) string {
	trimmed := strings.TrimSpace(text)

	out := textutil.PrefixRunes(trimmed, n)
	if len(out) < len(trimmed) {
		out += ellipsis
	}

	return out
}
