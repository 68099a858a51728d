// Package formatter renders the structured request data into a single
// human-readable markdown report. It is pure and deterministic: same inputs,
// same report, and a section is omitted entirely when its input is empty.
package formatter

import (
	"fmt"
	"strings"

	"codewhisper/internal/models"
)

// Format builds the markdown report in fixed section order:
// analysis, repo info, predictions, open issues, commits, Q&A.
func Format(profile *models.QueryProfile, repoCtx *models.RepoContext, questions []models.Question, report *models.PredictionReport) string {
	var b strings.Builder

	b.WriteString("## 📊 Query Analysis\n\n")
	fmt.Fprintf(&b, "- **Intent:** %s\n", profile.Intent)
	fmt.Fprintf(&b, "- **Keywords:** %s\n", keywordList(profile.Keywords))
	fmt.Fprintf(&b, "- **Severity:** %s\n\n", severityOrDefault(profile.Severity))

	if repoCtx != nil && repoCtx.RepoInfo.Name != "" {
		info := repoCtx.RepoInfo
		fmt.Fprintf(&b, "## 📦 Repository: %s\n\n", info.Name)
		fmt.Fprintf(&b, "- **Stars:** %d⭐\n", info.Stars)
		fmt.Fprintf(&b, "- **Language:** %s\n", valueOrNA(info.Language))
		fmt.Fprintf(&b, "- **Open Issues:** %d\n\n", info.OpenIssues)
	}

	if report != nil && len(report.Predictions) > 0 {
		b.WriteString("## 🎯 PROVEN SOLUTIONS (Success Rate Analysis)\n\n")
		for i, p := range report.Predictions {
			fmt.Fprintf(&b, "### %d. %s — %.0f%% Success\n", i+1, p.Label, p.SuccessRate*100)
			fmt.Fprintf(&b, "- **Worked:** %d times\n", p.SuccessCount)
			fmt.Fprintf(&b, "- **Failed:** %d times\n", p.FailureCount)
			fmt.Fprintf(&b, "- **Confidence:** %s\n", p.Confidence)
			fmt.Fprintf(&b, "- **Evidence:** %s\n\n", evidenceLinks(p.Evidence))
		}
	}

	if repoCtx != nil && len(repoCtx.Issues) > 0 {
		b.WriteString("## 🐛 Relevant Open Issues\n\n")
		for _, issue := range repoCtx.Issues {
			fmt.Fprintf(&b, "- **#%d**: %s ([link](%s))\n", issue.Number, issue.Title, issue.URL)
		}
		b.WriteString("\n")
	}

	if repoCtx != nil && len(repoCtx.Commits) > 0 {
		b.WriteString("## 📝 Related Commits\n\n")
		commits := repoCtx.Commits
		if len(commits) > 5 {
			commits = commits[:5]
		}
		for _, commit := range commits {
			fmt.Fprintf(&b, "- `%s` %s\n", commit.SHA, commit.Message)
		}
		b.WriteString("\n")
	}

	if len(questions) > 0 {
		b.WriteString("## 💡 Stack Overflow Solutions\n\n")
		for _, q := range questions {
			status := "❓"
			if q.Answered {
				status = "✅"
			}
			fmt.Fprintf(&b, "- %s [%s](%s) (%d votes)\n", status, q.Title, q.Link, q.Score)
		}
	}

	return b.String()
}

func keywordList(keywords []string) string {
	if len(keywords) == 0 {
		return "None"
	}
	return strings.Join(keywords, ", ")
}

func severityOrDefault(severity string) string {
	if severity == "" {
		return models.SeverityMedium
	}
	return severity
}

func valueOrNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

func evidenceLinks(evidence []models.EvidenceRef) string {
	links := make([]string, 0, len(evidence))
	for _, e := range evidence {
		links = append(links, fmt.Sprintf("[#%d](%s)", e.Issue, e.Link))
	}
	return strings.Join(links, ", ")
}
