package pipeline

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lueurxax/meeto/internal/core/domain"
	"github.com/lueurxax/meeto/internal/platform/observability"
	"github.com/lueurxax/meeto/internal/process/extraction"
)

// TaskExtractor produces raw task records for a transcript.
type TaskExtractor interface {
	Extract(ctx context.Context, transcript string) extraction.Result
}

// Compile-time assertion that *extraction.Extractor implements TaskExtractor.
var _ TaskExtractor = (*extraction.Extractor)(nil)

// Pipeline runs extraction, normalization and confidence filtering for one
// transcript.
type Pipeline struct {
	extractor TaskExtractor
	logger    *zerolog.Logger
}

// Result is the filtered output of one pipeline run.
type Result struct {
	CorrelationID string
	Tasks         []domain.TaskRecord
	Method        extraction.Method
	Outcome       extraction.ParseOutcome
	Dropped       int
}

// New returns a Pipeline around extractor. A nil logger discards output.
func New(extractor TaskExtractor, logger *zerolog.Logger) *Pipeline {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}

	return &Pipeline{
		extractor: extractor,
		logger:    logger,
	}
}

// Run extracts tasks from a transcript, drops records under the confidence
// threshold (equal is kept), normalizes survivors when enabled and drops any
// record left without a description. Input order is preserved.
func (p *Pipeline) Run(ctx context.Context, transcript string, cfg domain.ExtractionConfig) Result {
	correlationID := uuid.New().String()
	logger := p.logger.With().Str(LogFieldCorrelationID, correlationID).Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().
		Float64(LogFieldThreshold, cfg.ConfidenceThreshold).
		Msg(logMsgRunStarted)

	extracted := p.extractor.Extract(ctx, transcript)

	res := Result{
		CorrelationID: correlationID,
		Tasks:         make([]domain.TaskRecord, 0, len(extracted.Tasks)),
		Method:        extracted.Method,
		Outcome:       extracted.Outcome,
	}

	for i, task := range extracted.Tasks {
		if task.Confidence < cfg.ConfidenceThreshold {
			res.Dropped++

			logDrop(&logger, i, task, dropReasonLowConfidence)

			continue
		}

		if cfg.NormalizeEnabled {
			extraction.NormalizeRecord(&task)
		}

		if strings.TrimSpace(task.Description) == "" {
			res.Dropped++

			logDrop(&logger, i, task, dropReasonEmptyDescription)

			continue
		}

		res.Tasks = append(res.Tasks, task)
	}

	observability.TasksExtracted.Observe(float64(len(res.Tasks)))

	logger.Info().
		Str(LogFieldMethod, string(res.Method)).
		Str(LogFieldOutcome, res.Outcome.String()).
		Int(LogFieldCount, len(res.Tasks)).
		Msg(logMsgRunFinished)

	return res
}

func logDrop(logger *zerolog.Logger, index int, task domain.TaskRecord, reason string) {
	observability.TasksDropped.WithLabelValues(reason).Inc()

	logger.Debug().
		Int(LogFieldTaskIndex, index).
		Float64(LogFieldConfidence, task.Confidence).
		Str("reason", reason).
		Msg(logMsgTaskDropped)
}
