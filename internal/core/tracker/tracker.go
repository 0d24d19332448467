// Package tracker provides the issue tracker collaborator used by synchronization.
//
// The only concrete tracker is Jira Cloud (REST API v3). When credentials are
// missing, New returns Unavailable so callers can branch on IsAvailable
// instead of failing deep inside a sync run.
package tracker

import (
	"context"

	"github.com/lueurxax/meeto/internal/core/errors"
)

// User is an account returned by the user search endpoints.
type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Active       bool   `json:"active"`
}

// Project is the subset of project metadata needed to validate a key.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// IssueInput describes an issue to create.
type IssueInput struct {
	ProjectKey  string
	Summary     string
	Description string
	IssueType   string
	Priority    string
	AssigneeID  string
	DueDate     string
}

// CreatedIssue is the tracker's answer to a create call.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// Issue is a read view of a remote issue.
type Issue struct {
	Key         string
	Summary     string
	Description string
	Status      string
	Priority    string
	AssigneeID  string
	Assignee    string
	DueDate     string
}

// IssueUpdate lists fields to change. Nil fields are left untouched.
type IssueUpdate struct {
	Summary    *string
	Priority   *string
	AssigneeID *string
	DueDate    *string
}

// IssueTracker is the remote ticketing system.
type IssueTracker interface {
	GetProject(ctx context.Context, key string) (*Project, error)
	CreateIssue(ctx context.Context, in IssueInput) (*CreatedIssue, error)
	FindAssignableUsers(ctx context.Context, projectKey, query string) ([]User, error)
	FindUsers(ctx context.Context, query string) ([]User, error)
	GetIssue(ctx context.Context, key string) (*Issue, error)
	UpdateIssue(ctx context.Context, key string, update IssueUpdate) error
	AddComment(ctx context.Context, key, body string) error
	BrowseURL(key string) string
}

// Unavailable is the IssueTracker used when no credentials are configured.
type Unavailable struct{}

func (Unavailable) GetProject(context.Context, string) (*Project, error) {
	return nil, errors.ErrTrackerNotConfigured
}

func (Unavailable) CreateIssue(context.Context, IssueInput) (*CreatedIssue, error) {
	return nil, errors.ErrTrackerNotConfigured
}

func (Unavailable) FindAssignableUsers(context.Context, string, string) ([]User, error) {
	return nil, errors.ErrTrackerNotConfigured
}

func (Unavailable) FindUsers(context.Context, string) ([]User, error) {
	return nil, errors.ErrTrackerNotConfigured
}

func (Unavailable) GetIssue(context.Context, string) (*Issue, error) {
	return nil, errors.ErrTrackerNotConfigured
}

func (Unavailable) UpdateIssue(context.Context, string, IssueUpdate) error {
	return errors.ErrTrackerNotConfigured
}

func (Unavailable) AddComment(context.Context, string, string) error {
	return errors.ErrTrackerNotConfigured
}

func (Unavailable) BrowseURL(string) string {
	return ""
}

// IsAvailable reports whether t can reach a real tracker.
func IsAvailable(t IssueTracker) bool {
	if t == nil {
		return false
	}

	switch t.(type) {
	case Unavailable, *Unavailable:
		return false
	default:
		return true
	}
}

var _ IssueTracker = Unavailable{}
