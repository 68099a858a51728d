package predictor

import (
	"strings"

	"codewhisper/internal/githubapi"
	"codewhisper/internal/models"
)

// Fixed sentiment phrase sets. Signal counts are the number of *distinct*
// phrases present in a thread, not total occurrences.
var successPhrases = []string{
	"this worked", "fixed it", "solved", "resolved", "working now",
	"thank you", "thanks!", "perfect", "that did it", "success",
}

var failurePhrases = []string{
	"didn't work", "still broken", "not working", "same issue",
	"didn't fix", "still happening", "no luck",
}

// analyzeThread scans one issue's comment thread for sentiment signal and
// solution evidence. A comment qualifies as solution evidence when it carries
// a fenced code block or is longer than 100 characters.
func analyzeThread(issue githubapi.Issue, comments []githubapi.Comment) *models.IssueAnalysis {
	var solutions []models.CommentEvidence
	bodies := make([]string, 0, len(comments))
	for _, c := range comments {
		bodies = append(bodies, strings.ToLower(c.Body))

		if len(solutions) < maxSolutionsPerIssue && c.Body != "" &&
			(strings.Contains(c.Body, "```") || len(c.Body) > 100) {
			solutions = append(solutions, models.CommentEvidence{
				Author:    c.User.Login,
				Body:      excerpt(c.Body),
				CreatedAt: c.CreatedAt,
			})
		}
	}

	allText := strings.Join(bodies, " ")

	return &models.IssueAnalysis{
		IssueNumber:   issue.Number,
		Title:         issue.Title,
		URL:           issue.HTMLURL,
		Solutions:     solutions,
		SuccessCount:  countPhrases(allText, successPhrases),
		FailureCount:  countPhrases(allText, failurePhrases),
		TotalComments: len(comments),
		Labels:        labelNames(issue.Labels),
	}
}

// countPhrases returns how many of the given phrases appear in text at least once.
func countPhrases(text string, phrases []string) int {
	count := 0
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			count++
		}
	}
	return count
}

func excerpt(body string) string {
	if len(body) > maxExcerptLen {
		return body[:maxExcerptLen]
	}
	return body
}

func labelNames(labels []githubapi.Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return names
}
