// Package github imports open GitHub issues as todo drafts.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driven"
)

// Ensure Importer implements the interface.
var _ driven.TaskImporter = (*Importer)(nil)

const (
	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// ProactiveRate keeps well inside the 5000/hour authenticated quota.
	ProactiveRate = 1.2

	maxPerPage     = 100
	priorityPrefix = "priority:"
	sourceName     = "github"
)

// Config configures the importer.
type Config struct {
	Token string
	// Repo limits the import to "owner/name". Empty imports issues
	// assigned to the authenticated user across repositories.
	Repo string
	// BaseURL overrides the API endpoint (GitHub Enterprise, tests).
	BaseURL string
}

// Importer lists open issues through the GitHub REST API.
type Importer struct {
	gh      *gh.Client
	owner   string
	repo    string
	limiter *rate.Limiter
}

// NewImporter creates an importer authenticated with a static token.
func NewImporter(ctx context.Context, cfg Config) (*Importer, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: github token required", domain.ErrInvalidInput)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout
	return newImporter(gh.NewClient(tc), cfg)
}

// NewImporterWithHTTPClient creates an importer on a caller supplied client.
func NewImporterWithHTTPClient(httpClient *http.Client, cfg Config) (*Importer, error) {
	return newImporter(gh.NewClient(httpClient), cfg)
}

func newImporter(client *gh.Client, cfg Config) (*Importer, error) {
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("github base url: %w", err)
		}
		client.BaseURL = u
	}

	imp := &Importer{
		gh:      client,
		limiter: rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
	if cfg.Repo != "" {
		owner, repo, ok := strings.Cut(cfg.Repo, "/")
		if !ok || owner == "" || repo == "" {
			return nil, fmt.Errorf("%w: repo must be owner/name, got %q", domain.ErrInvalidInput, cfg.Repo)
		}
		imp.owner, imp.repo = owner, repo
	}
	return imp, nil
}

// Name returns the importer name.
func (i *Importer) Name() string { return sourceName }

// FetchDrafts returns up to limit open issues, newest first, as todo drafts.
// Pull requests are skipped.
func (i *Importer) FetchDrafts(ctx context.Context, limit int) ([]domain.ItemDraft, error) {
	perPage := min(limit, maxPerPage)
	drafts := make([]domain.ItemDraft, 0, limit)
	page := 1

	for page != 0 && len(drafts) < limit {
		if err := i.limiter.Wait(ctx); err != nil {
			return drafts, fmt.Errorf("rate limit wait: %w", err)
		}

		issues, resp, err := i.listPage(ctx, page, perPage)
		if err != nil {
			return drafts, wrapError(err)
		}
		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			drafts = append(drafts, issueToDraft(issue))
			if len(drafts) == limit {
				break
			}
		}
		page = resp.NextPage
	}
	return drafts, nil
}

func (i *Importer) listPage(ctx context.Context, page, perPage int) ([]*gh.Issue, *gh.Response, error) {
	list := gh.ListOptions{Page: page, PerPage: perPage}
	if i.repo != "" {
		return i.gh.Issues.ListByRepo(ctx, i.owner, i.repo, &gh.IssueListByRepoOptions{
			State: "open", Sort: "created", Direction: "desc", ListOptions: list,
		})
	}
	return i.gh.Issues.List(ctx, true, &gh.IssueListOptions{
		Filter: "assigned", State: "open", Sort: "created", Direction: "desc", ListOptions: list,
	})
}

func issueToDraft(issue *gh.Issue) domain.ItemDraft {
	d := domain.ItemDraft{
		Title: issue.GetTitle(),
		Text:  issue.GetBody(),
		Type:  string(domain.ItemTypeTodo),
		Metadata: map[string]any{
			domain.MetaSource: sourceName,
			domain.MetaURL:    issue.GetHTMLURL(),
			"issueNumber":     issue.GetNumber(),
		},
	}
	if repo := issue.GetRepository(); repo != nil {
		d.Metadata["repository"] = repo.GetFullName()
	}

	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		name := l.GetName()
		if p, ok := strings.CutPrefix(strings.ToLower(name), priorityPrefix); ok && domain.Priority(p).IsValid() {
			d.Priority = p
			continue
		}
		labels = append(labels, name)
	}
	if len(labels) > 0 {
		d.Metadata["labels"] = labels
	}

	if due := issue.GetMilestone().GetDueOn(); !due.IsZero() {
		d.DueDate = due.Format(time.RFC3339)
	}
	return d
}

// APIError is a non-2xx response from the GitHub API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api error %d: %s", e.StatusCode, e.Message)
}

// ErrRateLimited indicates the API quota is exhausted.
var ErrRateLimited = errors.New("github: rate limit exceeded")

func wrapError(err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w until %s", ErrRateLimited, rateErr.Rate.Reset.Format(time.RFC3339))
	}
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &APIError{StatusCode: ghErr.Response.StatusCode, Message: ghErr.Message}
	}
	return fmt.Errorf("list issues: %w", err)
}
