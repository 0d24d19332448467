package syncer

// Limits
const (
	maxSummaryLength    = 255
	maxTranscriptInBody = 5000

	// maxBodyLength keeps a description or comment under Jira's 32,767
	// character field limit with room for document markup.
	maxBodyLength = 30000
)

// Tracker priority names.
const (
	trackerPriorityLowest  = "Lowest"
	trackerPriorityMedium  = "Medium"
	trackerPriorityHigh    = "High"
	trackerPriorityHighest = "Highest"

	defaultIssueType = "Task"
)

// Metric label values.
const (
	statusCreated = "created"
	statusFailed  = "failed"
	statusSkipped = "skipped"

	sourceAssignable = "assignable"
	sourceGlobal     = "global"
	sourceUnassigned = "unassigned"
)

// Error formats
const (
	errFmtTrackerUnavailable = "sync to project %q: %w"
	errFmtValidateProject    = "validate project %q: %w"
	errFmtEmptyProject       = "sync: empty project key: %w"
)

// Log keys
const (
	logKeyProject    = "project"
	logKeyTaskIndex  = "task_index"
	logKeyIssueKey   = "issue_key"
	logKeyOwner      = "owner"
	logKeySource     = "source"
	logKeyDiagnostic = "diagnostic"
	logKeyCreated    = "created"
	logKeyAttempted  = "attempted"
	logKeySkipped    = "skipped"
	logKeyFailed     = "failed"
	logKeyPart       = "part"
	logKeyParts      = "parts"
)

// Log messages
const (
	logMsgProjectInvalid   = "project validation failed"
	logMsgItemSkipped      = "action item already linked, skipping"
	logMsgIssueCreated     = "issue created"
	logMsgIssueFailed      = "issue creation failed"
	logMsgAssigneeLookup   = "assignee lookup failed"
	logMsgAssigneeResolved = "assignee resolved"
	logMsgTranscriptLinked = "transcript issue already exists, skipping"
	logMsgSyncFinished     = "sync finished"
	logMsgCommentFailed    = "posting transcript continuation failed"
)
