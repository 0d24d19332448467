package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/lueurxax/meeto/internal/platform/config"
	"github.com/lueurxax/meeto/internal/platform/observability"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultRPS          = 5
	rateLimiterBurst    = 5
	apiPrefix           = "/rest/api/3"
	contentTypeJSON     = "application/json"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	maxResponseBodySize = 10 * 1024 * 1024 // 10MB
	errBodyReadLimit    = 4096
)

// Operation labels for metrics and logs.
const (
	opGetProject      = "get_project"
	opCreateIssue     = "create_issue"
	opAssignableUsers = "assignable_users"
	opSearchUsers     = "search_users"
	opGetIssue        = "get_issue"
	opUpdateIssue     = "update_issue"
	opAddComment      = "add_comment"
)

// Client talks to the Jira Cloud REST API v3 with basic auth.
type Client struct {
	baseURL     string
	email       string
	apiToken    string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *zerolog.Logger
}

// New returns a Jira client, or Unavailable when credentials are incomplete.
func New(cfg config.JiraConfig, logger *zerolog.Logger) IssueTracker {
	if !cfg.Configured() {
		return Unavailable{}
	}

	return NewClient(cfg, logger)
}

// NewClient creates a Jira client without checking credentials.
func NewClient(cfg config.JiraConfig, logger *zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}

	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		email:       cfg.Email,
		apiToken:    cfg.APIToken,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), rateLimiterBurst),
		logger:      logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BrowseURL returns the human-facing URL of an issue.
func (c *Client) BrowseURL(key string) string {
	return c.baseURL + "/browse/" + key
}

// GetProject fetches project metadata. A 404 means the key is wrong or not visible to the account.
func (c *Client) GetProject(ctx context.Context, key string) (*Project, error) {
	var project Project

	if err := c.do(ctx, opGetProject, http.MethodGet, "/project/"+url.PathEscape(key), nil, &project); err != nil {
		return nil, fmt.Errorf("get project %s: %w", key, err)
	}

	return &project, nil
}

type createIssueFields struct {
	Project     keyRef   `json:"project"`
	Summary     string   `json:"summary"`
	Description adfNode  `json:"description"`
	IssueType   nameRef  `json:"issuetype"`
	Priority    *nameRef `json:"priority,omitempty"`
	Assignee    *userRef `json:"assignee,omitempty"`
	DueDate     string   `json:"duedate,omitempty"`
}

type keyRef struct {
	Key string `json:"key"`
}

type nameRef struct {
	Name string `json:"name"`
}

type userRef struct {
	AccountID string `json:"accountId"`
}

// CreateIssue creates a new issue.
func (c *Client) CreateIssue(ctx context.Context, in IssueInput) (*CreatedIssue, error) {
	fields := createIssueFields{
		Project:     keyRef{Key: in.ProjectKey},
		Summary:     in.Summary,
		Description: toADF(in.Description),
		IssueType:   nameRef{Name: in.IssueType},
		DueDate:     in.DueDate,
	}

	if in.Priority != "" {
		fields.Priority = &nameRef{Name: in.Priority}
	}

	if in.AssigneeID != "" {
		fields.Assignee = &userRef{AccountID: in.AssigneeID}
	}

	var created CreatedIssue

	body := map[string]any{"fields": fields}
	if err := c.do(ctx, opCreateIssue, http.MethodPost, "/issue", body, &created); err != nil {
		return nil, fmt.Errorf("create issue in %s: %w", in.ProjectKey, err)
	}

	return &created, nil
}

// FindAssignableUsers searches users that may be assigned issues in a project.
func (c *Client) FindAssignableUsers(ctx context.Context, projectKey, query string) ([]User, error) {
	params := url.Values{}
	params.Set("project", projectKey)
	params.Set("query", query)

	var users []User
	if err := c.do(ctx, opAssignableUsers, http.MethodGet, "/user/assignable/search?"+params.Encode(), nil, &users); err != nil {
		return nil, fmt.Errorf("assignable user search: %w", err)
	}

	return users, nil
}

// FindUsers searches all users visible to the account.
func (c *Client) FindUsers(ctx context.Context, query string) ([]User, error) {
	params := url.Values{}
	params.Set("query", query)

	var users []User
	if err := c.do(ctx, opSearchUsers, http.MethodGet, "/user/search?"+params.Encode(), nil, &users); err != nil {
		return nil, fmt.Errorf("user search: %w", err)
	}

	return users, nil
}

type issueResponse struct {
	Key    string `json:"key"`
	Fields struct {
		Summary     string   `json:"summary"`
		Description *adfNode `json:"description"`
		DueDate     string   `json:"duedate"`
		Status      *nameRef `json:"status"`
		Priority    *nameRef `json:"priority"`
		Assignee    *User    `json:"assignee"`
	} `json:"fields"`
}

// GetIssue fetches a single issue.
func (c *Client) GetIssue(ctx context.Context, key string) (*Issue, error) {
	var resp issueResponse

	path := "/issue/" + url.PathEscape(key) + "?fields=summary,description,status,priority,assignee,duedate"
	if err := c.do(ctx, opGetIssue, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get issue %s: %w", key, err)
	}

	issue := &Issue{
		Key:     resp.Key,
		Summary: resp.Fields.Summary,
		DueDate: resp.Fields.DueDate,
	}

	if resp.Fields.Description != nil {
		issue.Description = plainText(*resp.Fields.Description)
	}

	if resp.Fields.Status != nil {
		issue.Status = resp.Fields.Status.Name
	}

	if resp.Fields.Priority != nil {
		issue.Priority = resp.Fields.Priority.Name
	}

	if resp.Fields.Assignee != nil {
		issue.AssigneeID = resp.Fields.Assignee.AccountID
		issue.Assignee = resp.Fields.Assignee.DisplayName
	}

	return issue, nil
}

// UpdateIssue edits the given fields of an issue.
func (c *Client) UpdateIssue(ctx context.Context, key string, update IssueUpdate) error {
	fields := map[string]any{}

	if update.Summary != nil {
		fields["summary"] = *update.Summary
	}

	if update.Priority != nil {
		fields["priority"] = nameRef{Name: *update.Priority}
	}

	if update.AssigneeID != nil {
		if *update.AssigneeID == "" {
			fields["assignee"] = nil
		} else {
			fields["assignee"] = userRef{AccountID: *update.AssigneeID}
		}
	}

	if update.DueDate != nil {
		if *update.DueDate == "" {
			fields["duedate"] = nil
		} else {
			fields["duedate"] = *update.DueDate
		}
	}

	if len(fields) == 0 {
		return nil
	}

	if err := c.do(ctx, opUpdateIssue, http.MethodPut, "/issue/"+url.PathEscape(key), map[string]any{"fields": fields}, nil); err != nil {
		return fmt.Errorf("update issue %s: %w", key, err)
	}

	return nil
}

// AddComment appends a plain-text comment to an issue.
func (c *Client) AddComment(ctx context.Context, key, body string) error {
	path := "/issue/" + url.PathEscape(key) + "/comment"
	if err := c.do(ctx, opAddComment, http.MethodPost, path, map[string]any{"body": toADF(body)}, nil); err != nil {
		return fmt.Errorf("comment on issue %s: %w", key, err)
	}

	return nil
}

// do sends one API request. out may be nil for calls without a response body.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var body io.Reader

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}

		body = bytes.NewReader(payload)
	}

	fullURL := c.baseURL + apiPrefix + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set(headerAccept, contentTypeJSON)

	if in != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.TrackerRequestDuration.WithLabelValues(op, "error").Observe(time.Since(start).Seconds())

		return fmt.Errorf("%s request: %w", op, err)
	}
	defer resp.Body.Close()

	observability.TrackerRequestDuration.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyReadLimit)) //nolint:errcheck // best effort diagnostic

		c.logger.Debug().
			Str("operation", op).
			Int("status", resp.StatusCode).
			Msg("jira request failed")

		return &APIError{
			Method:     method,
			URL:        fullURL,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(errBody)),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBodySize)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}

	return nil
}

var _ IssueTracker = (*Client)(nil)
