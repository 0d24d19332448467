// Package syncer creates tracker issues for extracted action items.
//
// A sync run is idempotent with respect to its input: items that already carry
// a linkage are skipped, so feeding a run's Result.Items back into Sync creates
// nothing new. Per-item failures are logged and counted, never returned.
package syncer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"github.com/lueurxax/meeto/internal/core/domain"
	"github.com/lueurxax/meeto/internal/core/errors"
	"github.com/lueurxax/meeto/internal/core/tracker"
	"github.com/lueurxax/meeto/internal/platform/observability"
	"github.com/lueurxax/meeto/internal/platform/textutil"
)

// Request carries the per-run inputs besides the action items.
type Request struct {
	ProjectKey      string
	IssueType       string
	DefaultPriority string
	Transcript      string
	Title           string
	Summary         string

	// TranscriptIssue is the linkage of a transcript issue created by an earlier run.
	TranscriptIssue *domain.IssueLinkage
}

// Result reports what one sync run did.
type Result struct {
	// Items is the input list with linkages created in this run attached.
	Items []domain.ActionItem

	// Linkages lists only the issues created in this run, in item order.
	Linkages []domain.IssueLinkage

	// TranscriptIssue is set when the item list was empty.
	TranscriptIssue *domain.IssueLinkage

	Created   int
	Attempted int
	Skipped   int
	Failed    int
}

// Syncer turns action items into tracker issues.
type Syncer struct {
	tracker tracker.IssueTracker
	logger  *zerolog.Logger
}

// New returns a Syncer for t. A nil tracker behaves as tracker.Unavailable.
func New(t tracker.IssueTracker, logger *zerolog.Logger) *Syncer {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}

	if t == nil {
		t = tracker.Unavailable{}
	}

	return &Syncer{tracker: t, logger: logger}
}

// Sync validates the project and creates one issue per unlinked item. With no
// items at all it files the transcript itself as a single issue, unless req
// already carries a transcript linkage.
func (s *Syncer) Sync(ctx context.Context, items []domain.ActionItem, req Request) (*Result, error) {
	logger := s.loggerFor(ctx).With().Str(logKeyProject, req.ProjectKey).Logger()

	if err := s.checkPreconditions(ctx, &logger, req.ProjectKey); err != nil {
		return nil, err
	}

	res := &Result{Items: make([]domain.ActionItem, len(items))}
	copy(res.Items, items)

	if len(items) == 0 {
		s.syncTranscript(ctx, &logger, req, res)
	}

	for i := range res.Items {
		s.syncItem(ctx, &logger, req, i, res)
	}

	logger.Info().
		Int(logKeyCreated, res.Created).
		Int(logKeyAttempted, res.Attempted).
		Int(logKeySkipped, res.Skipped).
		Int(logKeyFailed, res.Failed).
		Msg(logMsgSyncFinished)

	return res, nil
}

func (s *Syncer) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}

	return s.logger
}

func (s *Syncer) checkPreconditions(ctx context.Context, logger *zerolog.Logger, projectKey string) error {
	if !tracker.IsAvailable(s.tracker) {
		return fmt.Errorf(errFmtTrackerUnavailable, projectKey, errors.ErrTrackerNotConfigured)
	}

	if strings.TrimSpace(projectKey) == "" {
		return fmt.Errorf(errFmtEmptyProject, errors.ErrInvalidInput)
	}

	if _, err := s.tracker.GetProject(ctx, projectKey); err != nil {
		logger.Error().Err(err).Str(logKeyDiagnostic, tracker.Diagnostic(err)).Msg(logMsgProjectInvalid)

		return fmt.Errorf(errFmtValidateProject, projectKey, err)
	}

	return nil
}

func (s *Syncer) syncItem(ctx context.Context, logger *zerolog.Logger, req Request, i int, res *Result) {
	item := res.Items[i]
	itemLogger := logger.With().Int(logKeyTaskIndex, i).Logger()

	if item.Synced() {
		res.Skipped++

		observability.IssuesSynced.WithLabelValues(statusSkipped).Inc()
		itemLogger.Debug().Str(logKeyIssueKey, item.Linkage.RemoteKey).Msg(logMsgItemSkipped)

		return
	}

	input := tracker.IssueInput{
		ProjectKey:  req.ProjectKey,
		Summary:     textutil.PrefixRunes(item.Task.Description, maxSummaryLength),
		Description: issueBody(item.Task, req),
		IssueType:   issueType(req),
		Priority:    MapPriority(item.Task.Priority, req.DefaultPriority),
		DueDate:     item.Task.Deadline,
	}

	if item.Task.HasOwner() {
		input.AssigneeID = s.resolveAssignee(ctx, &itemLogger, req.ProjectKey, item.Task.Owner)
	}

	linkage, ok := s.create(ctx, &itemLogger, input, res)
	if !ok {
		return
	}

	res.Items[i].Linkage = linkage
}

func (s *Syncer) syncTranscript(ctx context.Context, logger *zerolog.Logger, req Request, res *Result) {
	if req.TranscriptIssue != nil && req.TranscriptIssue.RemoteKey != "" {
		res.Skipped++
		res.TranscriptIssue = req.TranscriptIssue

		observability.IssuesSynced.WithLabelValues(statusSkipped).Inc()
		logger.Debug().Str(logKeyIssueKey, req.TranscriptIssue.RemoteKey).Msg(logMsgTranscriptLinked)

		return
	}

	parts := textutil.Chunks(transcriptBody(req), maxBodyLength)

	input := tracker.IssueInput{
		ProjectKey: req.ProjectKey,
		Summary:    textutil.PrefixRunes(transcriptSummary(req.Title), maxSummaryLength),
		IssueType:  issueType(req),
		Priority:   MapPriority(domain.PriorityMedium, req.DefaultPriority),
	}

	if len(parts) > 0 {
		input.Description = parts[0]
	}

	linkage, ok := s.create(ctx, logger, input, res)
	if !ok {
		return
	}

	res.TranscriptIssue = linkage

	if len(parts) > 1 {
		s.postContinuation(ctx, logger, linkage.RemoteKey, parts[1:])
	}
}

// postContinuation appends the rest of a long transcript as comments, in
// order. It stops at the first failure; the issue itself stays created.
func (s *Syncer) postContinuation(ctx context.Context, logger *zerolog.Logger, key string, parts []string) {
	for i, part := range parts {
		if err := s.tracker.AddComment(ctx, key, part); err != nil {
			logger.Warn().
				Err(err).
				Str(logKeyIssueKey, key).
				Int(logKeyPart, i+2).
				Int(logKeyParts, len(parts)+1).
				Str(logKeyDiagnostic, tracker.Diagnostic(err)).
				Msg(logMsgCommentFailed)

			return
		}
	}
}

func (s *Syncer) create(ctx context.Context, logger *zerolog.Logger, input tracker.IssueInput, res *Result) (*domain.IssueLinkage, bool) {
	res.Attempted++

	issue, err := s.tracker.CreateIssue(ctx, input)
	if err != nil {
		res.Failed++

		observability.IssuesSynced.WithLabelValues(statusFailed).Inc()
		logger.Warn().Err(err).Str(logKeyDiagnostic, tracker.Diagnostic(err)).Msg(logMsgIssueFailed)

		return nil, false
	}

	linkage := domain.IssueLinkage{
		RemoteKey:  issue.Key,
		RemoteURL:  s.tracker.BrowseURL(issue.Key),
		AssigneeID: input.AssigneeID,
	}

	res.Created++
	res.Linkages = append(res.Linkages, linkage)

	observability.IssuesSynced.WithLabelValues(statusCreated).Inc()
	logger.Info().Str(logKeyIssueKey, issue.Key).Msg(logMsgIssueCreated)

	return &linkage, true
}

// resolveAssignee tries the project's assignable users, then a global search.
// Lookup errors degrade to the next step; the final fallback is unassigned.
func (s *Syncer) resolveAssignee(ctx context.Context, logger *zerolog.Logger, projectKey, owner string) string {
	users, err := s.tracker.FindAssignableUsers(ctx, projectKey, owner)
	if err != nil {
		logger.Warn().Err(err).Str(logKeySource, sourceAssignable).Msg(logMsgAssigneeLookup)
	} else if id := pickUser(users, owner); id != "" {
		return s.resolved(logger, owner, sourceAssignable, id)
	}

	users, err = s.tracker.FindUsers(ctx, owner)
	if err != nil {
		logger.Warn().Err(err).Str(logKeySource, sourceGlobal).Msg(logMsgAssigneeLookup)
	} else if id := pickUser(users, owner); id != "" {
		return s.resolved(logger, owner, sourceGlobal, id)
	}

	return s.resolved(logger, owner, sourceUnassigned, "")
}

func (s *Syncer) resolved(logger *zerolog.Logger, owner, source, id string) string {
	observability.AssigneeResolutions.WithLabelValues(source).Inc()

	logger.Debug().Str(logKeyOwner, owner).Str(logKeySource, source).Msg(logMsgAssigneeResolved)

	return id
}

// pickUser prefers a case-folded exact match on display name or email and
// otherwise takes the first candidate with an account ID.
func pickUser(users []tracker.User, query string) string {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))

	for _, u := range users {
		if u.AccountID == "" {
			continue
		}

		if fold.String(u.DisplayName) == q || (u.EmailAddress != "" && fold.String(u.EmailAddress) == q) {
			return u.AccountID
		}
	}

	for _, u := range users {
		if u.AccountID != "" {
			return u.AccountID
		}
	}

	return ""
}

// MapPriority translates a task priority to the tracker's priority name.
// Anything outside the vocabulary maps to fallback.
func MapPriority(p domain.Priority, fallback string) string {
	switch p {
	case domain.PriorityLow:
		return trackerPriorityLowest
	case domain.PriorityMedium:
		return trackerPriorityMedium
	case domain.PriorityHigh:
		return trackerPriorityHigh
	case domain.PriorityCritical:
		return trackerPriorityHighest
	default:
		if fallback == "" {
			return trackerPriorityMedium
		}

		return fallback
	}
}

func issueType(req Request) string {
	if req.IssueType == "" {
		return defaultIssueType
	}

	return req.IssueType
}

func issueBody(task domain.TaskRecord, req Request) string {
	var sb strings.Builder

	if req.Title != "" {
		fmt.Fprintf(&sb, "From meeting: %s\n\n", req.Title)
	}

	sb.WriteString(task.Description)

	var meta []string
	if task.HasOwner() {
		meta = append(meta, "Owner: "+task.Owner)
	}

	if task.Deadline != "" {
		meta = append(meta, "Deadline: "+task.Deadline)
	}

	if len(meta) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(strings.Join(meta, "\n"))
	}

	if excerpt := strings.TrimSpace(textutil.PrefixRunes(req.Transcript, maxTranscriptInBody)); excerpt != "" {
		sb.WriteString("\n\nTranscript excerpt:\n")
		sb.WriteString(excerpt)
	}

	return sb.String()
}

func transcriptSummary(title string) string {
	if title = strings.TrimSpace(title); title != "" {
		return "Meeting transcript: " + title
	}

	return "Meeting transcript"
}

func transcriptBody(req Request) string {
	summary := strings.TrimSpace(req.Summary)
	if summary == "" {
		return req.Transcript
	}

	return summary + "\n\n" + req.Transcript
}
