// Package app wires configuration, model providers and the issue tracker into
// the meeting workflow and exposes the operational modes used by cmd/meeto:
//
//   - Extract: transcript to filtered action items plus minutes
//   - Sync: extracted items to tracker issues, idempotent across runs
//   - Status: read back linked issues from the tracker
//   - Watch: poll a directory for transcripts and process each once
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lueurxax/meeto/internal/core/domain"
	"github.com/lueurxax/meeto/internal/core/errors"
	"github.com/lueurxax/meeto/internal/core/llm"
	"github.com/lueurxax/meeto/internal/core/tracker"
	"github.com/lueurxax/meeto/internal/platform/config"
	"github.com/lueurxax/meeto/internal/process/extraction"
	"github.com/lueurxax/meeto/internal/process/pipeline"
	"github.com/lueurxax/meeto/internal/process/summary"
	"github.com/lueurxax/meeto/internal/process/syncer"
)

const (
	logFieldProject  = "project"
	logFieldIssueKey = "issue_key"
	logFieldMethod   = "method"
	logFieldTasks    = "tasks"
	logFieldTitle    = "title"

	errFmtLookupIssue = "lookup issue %s: %w"
	errFmtSync        = "sync meeting: %w"
)

// App holds the application dependencies and provides methods to run different modes.
type App struct {
	cfg       *config.Config
	llmClient llm.ChatCompleter
	tracker   tracker.IssueTracker
	pipeline  *pipeline.Pipeline
	summaries *summary.Generator
	syncer    *syncer.Syncer
	logger    *zerolog.Logger

	// handled records transcripts the watcher already took, so a file whose
	// result could not be written is never extracted or synced twice.
	handledMu sync.Mutex
	handled   map[string]struct{}
}

// New builds the providers and tracker client from cfg.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *App {
	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	llmClient := llm.New(ctx, cfg.LLMCfg(), logger)
	issueTracker := tracker.New(cfg.JiraCfg(), logger)

	return NewWithCollaborators(cfg, llmClient, issueTracker, logger)
}

// NewWithCollaborators wires the workflow around already built collaborators.
func NewWithCollaborators(cfg *config.Config, llmClient llm.ChatCompleter, issueTracker tracker.IssueTracker, logger *zerolog.Logger) *App {
	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	model := cfg.LLMCfg().Model

	return &App{
		cfg:       cfg,
		llmClient: llmClient,
		tracker:   issueTracker,
		pipeline:  pipeline.New(extraction.NewExtractor(llmClient, model, logger), logger),
		summaries: summary.New(llmClient, model, logger),
		syncer:    syncer.New(issueTracker, logger),
		logger:    logger,
		handled:   make(map[string]struct{}),
	}
}

// Close releases provider clients.
func (a *App) Close() error {
	return llm.Close(a.llmClient)
}

// ModelAvailable reports whether any chat model provider is configured.
func (a *App) ModelAvailable() bool {
	return llm.IsAvailable(a.llmClient)
}

// TrackerAvailable reports whether tracker credentials are configured.
func (a *App) TrackerAvailable() bool {
	return tracker.IsAvailable(a.tracker)
}

// ProcessTranscript extracts action items and minutes. It never fails: model
// problems degrade to the heuristic extractor and a transcript excerpt.
func (a *App) ProcessTranscript(ctx context.Context, title, transcript string) *domain.MeetingResult {
	ex := a.cfg.ExtractionCfg()

	res := a.pipeline.Run(ctx, transcript, domain.ExtractionConfig{
		ConfidenceThreshold: ex.ConfidenceThreshold,
		NormalizeEnabled:    ex.NormalizeEnabled,
	})

	meeting := &domain.MeetingResult{
		Title:      title,
		Transcript: transcript,
		Summary:    a.summaries.Generate(ctx, transcript),
		Items:      domain.NewActionItems(res.Tasks),
	}

	a.logger.Info().
		Str(logFieldTitle, title).
		Str(logFieldMethod, string(res.Method)).
		Int(logFieldTasks, len(meeting.Items)).
		Msg("transcript processed")

	return meeting
}

// SyncMeeting pushes the meeting's unlinked items to the tracker and records
// the new linkages on meeting. An empty projectKey uses the configured one.
func (a *App) SyncMeeting(ctx context.Context, projectKey string, meeting *domain.MeetingResult) (*syncer.Result, error) {
	jira := a.cfg.JiraCfg()
	if projectKey == "" {
		projectKey = jira.ProjectKey
	}

	res, err := a.syncer.Sync(ctx, meeting.Items, syncer.Request{
		ProjectKey:      projectKey,
		IssueType:       jira.IssueType,
		DefaultPriority: jira.DefaultPriority,
		Transcript:      meeting.Transcript,
		Title:           meeting.Title,
		Summary:         meeting.Summary,
		TranscriptIssue: meeting.TranscriptIssue,
	})
	if err != nil {
		a.logger.Error().Err(err).Str(logFieldProject, projectKey).Msg("sync aborted")

		return nil, fmt.Errorf(errFmtSync, err)
	}

	meeting.Items = res.Items
	meeting.TranscriptIssue = res.TranscriptIssue

	return res, nil
}

// IssueStatus looks up every issue linked to the meeting, in item order,
// followed by the transcript issue.
func (a *App) IssueStatus(ctx context.Context, meeting *domain.MeetingResult) ([]tracker.Issue, error) {
	if !tracker.IsAvailable(a.tracker) {
		return nil, errors.ErrTrackerNotConfigured
	}

	keys := make([]string, 0, len(meeting.Items)+1)
	for _, item := range meeting.Items {
		if item.Synced() {
			keys = append(keys, item.Linkage.RemoteKey)
		}
	}

	if meeting.TranscriptIssue != nil && meeting.TranscriptIssue.RemoteKey != "" {
		keys = append(keys, meeting.TranscriptIssue.RemoteKey)
	}

	issues := make([]tracker.Issue, 0, len(keys))

	for _, key := range keys {
		issue, err := a.tracker.GetIssue(ctx, key)
		if err != nil {
			a.logger.Warn().Err(err).Str(logFieldIssueKey, key).Msg("issue lookup failed")

			return issues, fmt.Errorf(errFmtLookupIssue, key, err)
		}

		issues = append(issues, *issue)
	}

	return issues, nil
}
