// Package githubapi is a minimal client for the handful of GitHub REST
// endpoints this service consumes. Every call carries a fixed timeout and is
// never retried; callers decide whether a failure degrades or propagates.
package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// Per-call timeouts. The issue search is the predictor's single mandatory
// call and gets the longest budget.
const (
	defaultTimeout     = 10 * time.Second
	commentTimeout     = 8 * time.Second
	issueSearchTimeout = 15 * time.Second
)

// Client talks to the GitHub REST API, authenticated when a token is
// configured and anonymous (rate-limited) otherwise.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a GitHub client. An empty token yields an unauthenticated client.
func New(baseURL, token string) *Client {
	httpc := &http.Client{Timeout: defaultTimeout}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpc = oauth2.NewClient(context.Background(), src)
		httpc.Timeout = defaultTimeout
	}
	return &Client{baseURL: baseURL, httpc: httpc}
}

// Label is an issue label.
type Label struct {
	Name string `json:"name"`
}

// Issue captures the fields we care about from the issues and issue-search
// endpoints. PullRequest is non-nil when the "issue" is actually a PR.
type Issue struct {
	Number      int     `json:"number"`
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	State       string  `json:"state"`
	HTMLURL     string  `json:"html_url"`
	CommentsURL string  `json:"comments_url"`
	CreatedAt   string  `json:"created_at"`
	Comments    int     `json:"comments"`
	Labels      []Label `json:"labels"`
	PullRequest *struct {
		URL string `json:"url"`
	} `json:"pull_request,omitempty"`
}

// Comment is a single issue thread comment.
type Comment struct {
	User struct {
		Login string `json:"login"`
	} `json:"user"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// Commit is one entry from the commit-listing endpoint.
type Commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	HTMLURL string `json:"html_url"`
}

// Repo is repository metadata.
type Repo struct {
	FullName        string `json:"full_name"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	Language        string `json:"language"`
	OpenIssuesCount int    `json:"open_issues_count"`
	DefaultBranch   string `json:"default_branch"`
	HTMLURL         string `json:"html_url"`
}

type issueSearchResult struct {
	TotalCount int     `json:"total_count"`
	Items      []Issue `json:"items"`
}

type repoSearchResult struct {
	Items []Repo `json:"items"`
}

// ListOpenIssues returns up to 15 open issues for the repository.
func (c *Client) ListOpenIssues(ctx context.Context, owner, repo string) ([]Issue, error) {
	var issues []Issue
	path := fmt.Sprintf("/repos/%s/%s/issues?state=open&per_page=15", owner, repo)
	if err := c.getJSON(ctx, path, defaultTimeout, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// ListCommits returns up to 50 recent commits for the repository.
func (c *Client) ListCommits(ctx context.Context, owner, repo string) ([]Commit, error) {
	var commits []Commit
	path := fmt.Sprintf("/repos/%s/%s/commits?per_page=50", owner, repo)
	if err := c.getJSON(ctx, path, defaultTimeout, &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

// GetRepo returns repository metadata.
func (c *Client) GetRepo(ctx context.Context, owner, repo string) (*Repo, error) {
	var r Repo
	path := fmt.Sprintf("/repos/%s/%s", owner, repo)
	if err := c.getJSON(ctx, path, defaultTimeout, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// SearchRepositories returns up to 5 repositories matching the query,
// sorted by stars.
func (c *Client) SearchRepositories(ctx context.Context, query string) ([]Repo, error) {
	var result repoSearchResult
	path := "/search/repositories?q=" + url.QueryEscape(query) + "&sort=stars&per_page=5"
	if err := c.getJSON(ctx, path, defaultTimeout, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// SearchClosedIssues returns up to 30 closed issues in the repository matching
// the search terms, ordered by comment count descending.
func (c *Client) SearchClosedIssues(ctx context.Context, terms, owner, repo string) ([]Issue, error) {
	q := fmt.Sprintf("%s repo:%s/%s is:closed is:issue", terms, owner, repo)
	var result issueSearchResult
	path := "/search/issues?q=" + url.QueryEscape(q) + "&per_page=30&sort=comments"
	if err := c.getJSON(ctx, path, issueSearchTimeout, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// ListIssueComments fetches an issue's full comment thread from its
// comments URL as returned by the search endpoint.
func (c *Client) ListIssueComments(ctx context.Context, commentsURL string) ([]Comment, error) {
	var comments []Comment
	if err := c.getJSONURL(ctx, commentsURL, commentTimeout, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) getJSON(ctx context.Context, path string, timeout time.Duration, out any) error {
	return c.getJSONURL(ctx, c.baseURL+path, timeout, out)
}

func (c *Client) getJSONURL(ctx context.Context, fullURL string, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("github: %s returned %d: %s", fullURL, resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
