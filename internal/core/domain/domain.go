package domain

import "strings"

// Priority is the task urgency vocabulary produced by extraction.
type Priority string

// Priority values.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Task record limits.
const (
	MaxDescriptionLength = 140
	DefaultConfidence    = 0.5
	DeadlineLayout       = "2006-01-02"
)

// ParsePriority maps free text onto the priority vocabulary. Unknown values become medium.
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow
	case PriorityHigh:
		return PriorityHigh
	case PriorityCritical:
		return PriorityCritical
	default:
		return PriorityMedium
	}
}

// TaskRecord represents one extracted action item.
type TaskRecord struct {
	Description string   `json:"description"`
	Owner       string   `json:"owner,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
	Priority    Priority `json:"priority"`
	Confidence  float64  `json:"confidence"`
}

// HasOwner reports whether an owner name is known.
func (t TaskRecord) HasOwner() bool {
	return t.Owner != ""
}

// IssueLinkage records the remote issue created for a task or transcript.
type IssueLinkage struct {
	RemoteKey  string `json:"remote_key"`
	RemoteURL  string `json:"remote_url"`
	AssigneeID string `json:"assignee_id,omitempty"`
}

// ActionItem is a task record together with its synchronization state.
type ActionItem struct {
	Task    TaskRecord    `json:"task"`
	Linkage *IssueLinkage `json:"linkage,omitempty"`
}

// Synced reports whether the item already has a remote issue.
func (a ActionItem) Synced() bool {
	return a.Linkage != nil && a.Linkage.RemoteKey != ""
}

// NewActionItems wraps freshly extracted records with empty linkages.
func NewActionItems(tasks []TaskRecord) []ActionItem {
	items := make([]ActionItem, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, ActionItem{Task: t})
	}

	return items
}

// ExtractionConfig controls the filtering and normalization stages of extraction.
type ExtractionConfig struct {
	ConfidenceThreshold float64
	NormalizeEnabled    bool
}

// DefaultExtractionConfig returns the stock thresholds.
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		ConfidenceThreshold: 0.4,
		NormalizeEnabled:    true,
	}
}

// MeetingResult bundles everything produced for one transcript.
type MeetingResult struct {
	Title           string        `json:"title,omitempty"`
	Transcript      string        `json:"transcript"`
	Summary         string        `json:"summary"`
	Items           []ActionItem  `json:"items"`
	TranscriptIssue *IssueLinkage `json:"transcript_issue,omitempty"`
}
