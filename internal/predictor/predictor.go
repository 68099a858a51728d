// Package predictor implements the issue resolution predictor: it mines a
// repository's closed issues for discussion threads similar to the query,
// extracts candidate solutions from the comments, clusters them into fix
// strategies and ranks the strategies by their empirical success rate.
//
// The success rate is estimated purely from textual sentiment in the threads.
// Nothing here executes or validates a fix.
package predictor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"codewhisper/internal/githubapi"
	"codewhisper/internal/models"
)

const (
	maxCandidateIssues   = 15
	maxSolutionsPerIssue = 5
	maxExcerptLen        = 500
	maxPredictions       = 5
	maxEvidence          = 3
)

// Predictor mines closed issues for resolution signal.
type Predictor struct {
	gh *githubapi.Client
}

// New creates a predictor backed by the given tracker client.
func New(gh *githubapi.Client) *Predictor {
	return &Predictor{gh: gh}
}

// Predict runs the full pipeline for one query. It never returns an error:
// a failed candidate search or any other internal failure is folded into a
// low-confidence report so the surrounding request can still complete.
func (p *Predictor) Predict(ctx context.Context, profile *models.QueryProfile, owner, repo string) *models.PredictionReport {
	closed, err := p.gh.SearchClosedIssues(ctx, profile.SearchTerms, owner, repo)
	if err != nil {
		slog.Error("closed issue search failed", "repo", owner+"/"+repo, "error", err)
		return &models.PredictionReport{
			Predictions: []models.Prediction{},
			Confidence:  models.ConfidenceLow,
			Error:       err.Error(),
		}
	}

	// A successful search with no candidates is a valid terminal state,
	// not an error.
	if len(closed) == 0 {
		return &models.PredictionReport{
			Predictions: []models.Prediction{},
			Confidence:  models.ConfidenceLow,
			Message:     "No similar closed issues found for prediction",
		}
	}

	analyses := p.mineThreads(ctx, closed)
	groups := groupSolutions(analyses)
	predictions := rankGroups(groups)

	confidence := models.ConfidenceMedium
	if len(predictions) > 0 && predictions[0].Trials > 3 {
		confidence = models.ConfidenceHigh
	}

	return &models.PredictionReport{
		Predictions:         predictions,
		TotalIssuesAnalyzed: len(analyses),
		Confidence:          confidence,
		Message:             fmt.Sprintf("Analyzed %d similar closed issues", len(analyses)),
	}
}

// mineThreads fetches and analyzes the comment threads of up to
// maxCandidateIssues issues concurrently. A failed thread fetch drops that
// issue from the analysis without affecting the rest of the batch.
func (p *Predictor) mineThreads(ctx context.Context, closed []githubapi.Issue) []*models.IssueAnalysis {
	if len(closed) > maxCandidateIssues {
		closed = closed[:maxCandidateIssues]
	}

	results := make([]*models.IssueAnalysis, len(closed))
	var wg sync.WaitGroup
	for i, issue := range closed {
		wg.Add(1)
		go func(i int, issue githubapi.Issue) {
			defer wg.Done()
			comments, err := p.gh.ListIssueComments(ctx, issue.CommentsURL)
			if err != nil {
				slog.Warn("thread fetch failed, dropping issue", "issue", issue.Number, "error", err)
				return
			}
			results[i] = analyzeThread(issue, comments)
		}(i, issue)
	}
	wg.Wait()

	analyses := make([]*models.IssueAnalysis, 0, len(results))
	for _, a := range results {
		if a != nil {
			analyses = append(analyses, a)
		}
	}
	return analyses
}
