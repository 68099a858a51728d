// Package fetcher gathers repository context from the issue tracker. The four
// facets (open issues, commit history, trending search, repo metadata) are
// fetched concurrently and each failure degrades that facet to an empty value
// rather than aborting the request.
package fetcher

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"codewhisper/internal/githubapi"
	"codewhisper/internal/models"
)

const (
	maxRelevantIssues  = 5
	maxRecentCommits   = 8
	maxTrendingRepos   = 5
	trendingStarsQuery = " stars:>50"
)

// Fetcher retrieves and filters repository context.
type Fetcher struct {
	gh *githubapi.Client
}

// New creates a context fetcher.
func New(gh *githubapi.Client) *Fetcher {
	return &Fetcher{gh: gh}
}

// Fetch retrieves all tracker facets for the repository and filters them by
// the profile's keywords. It always returns a usable context; facets that
// failed upstream come back empty.
func (f *Fetcher) Fetch(ctx context.Context, profile *models.QueryProfile, owner, repo string) *models.RepoContext {
	var (
		wg       sync.WaitGroup
		issues   []githubapi.Issue
		commits  []githubapi.Commit
		repoInfo *githubapi.Repo
		trending []githubapi.Repo
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		var err error
		if issues, err = f.gh.ListOpenIssues(ctx, owner, repo); err != nil {
			slog.Warn("open issue fetch failed", "repo", owner+"/"+repo, "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if commits, err = f.gh.ListCommits(ctx, owner, repo); err != nil {
			slog.Warn("commit fetch failed", "repo", owner+"/"+repo, "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if repoInfo, err = f.gh.GetRepo(ctx, owner, repo); err != nil {
			slog.Warn("repo info fetch failed", "repo", owner+"/"+repo, "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if trending, err = f.gh.SearchRepositories(ctx, profile.SearchTerms+trendingStarsQuery); err != nil {
			slog.Warn("trending search failed", "error", err)
		}
	}()
	wg.Wait()

	result := &models.RepoContext{
		Issues:   filterIssues(issues, profile.Keywords),
		Commits:  filterCommits(commits, profile.Keywords),
		Trending: mapTrending(trending),
	}
	if repoInfo != nil {
		result.RepoInfo = models.RepoInfo{
			Name:          repoInfo.FullName,
			Description:   repoInfo.Description,
			Stars:         repoInfo.StargazersCount,
			Language:      repoInfo.Language,
			OpenIssues:    repoInfo.OpenIssuesCount,
			DefaultBranch: repoInfo.DefaultBranch,
		}
	}
	return result
}

// filterIssues keeps non-pull-request issues whose title or body contains at
// least one profile keyword, capped at maxRelevantIssues.
func filterIssues(issues []githubapi.Issue, keywords []string) []models.IssueRef {
	var kept []models.IssueRef
	for _, issue := range issues {
		if issue.PullRequest != nil {
			continue
		}
		if !matchesAnyKeyword(issue.Title+" "+issue.Body, keywords) {
			continue
		}
		kept = append(kept, models.IssueRef{
			Number:    issue.Number,
			Title:     issue.Title,
			State:     issue.State,
			Labels:    labelNames(issue.Labels),
			URL:       issue.HTMLURL,
			CreatedAt: issue.CreatedAt,
			Comments:  issue.Comments,
		})
		if len(kept) == maxRelevantIssues {
			break
		}
	}
	return kept
}

// filterCommits keeps commits whose message contains a keyword. When none
// match, the most recent commits are returned unfiltered instead: a repo with
// history never yields zero commits.
func filterCommits(commits []githubapi.Commit, keywords []string) []models.CommitRef {
	all := make([]models.CommitRef, 0, len(commits))
	for _, c := range commits {
		sha := c.SHA
		if len(sha) > 7 {
			sha = sha[:7]
		}
		message, _, _ := strings.Cut(c.Commit.Message, "\n")
		all = append(all, models.CommitRef{
			SHA:         sha,
			FullSHA:     c.SHA,
			Message:     message,
			FullMessage: c.Commit.Message,
			Author:      c.Commit.Author.Name,
			Date:        c.Commit.Author.Date,
			URL:         c.HTMLURL,
		})
	}

	var relevant []models.CommitRef
	for _, c := range all {
		if matchesAnyKeyword(c.Message+" "+c.FullMessage, keywords) {
			relevant = append(relevant, c)
		}
	}

	if len(relevant) > 0 {
		if len(relevant) > maxRecentCommits {
			relevant = relevant[:maxRecentCommits]
		}
		return relevant
	}
	if len(all) > maxRecentCommits {
		all = all[:maxRecentCommits]
	}
	return all
}

func mapTrending(repos []githubapi.Repo) []models.TrendingRepo {
	if len(repos) > maxTrendingRepos {
		repos = repos[:maxTrendingRepos]
	}
	out := make([]models.TrendingRepo, 0, len(repos))
	for _, r := range repos {
		desc := r.Description
		if len(desc) > 150 {
			desc = desc[:150]
		}
		out = append(out, models.TrendingRepo{
			Name:        r.FullName,
			Stars:       r.StargazersCount,
			Description: desc,
			Language:    r.Language,
			URL:         r.HTMLURL,
		})
	}
	return out
}

func matchesAnyKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func labelNames(labels []githubapi.Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return names
}
