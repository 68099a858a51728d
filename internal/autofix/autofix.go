// Package autofix drafts a small patch plan guided by the top-ranked
// prediction. The plan is advisory only: nothing here ever writes to the
// remote repository, and "apply" mode merely describes the branch and PR it
// would create.
package autofix

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"codewhisper/internal/gemini"
	"codewhisper/internal/models"
)

// Structured failure reasons.
const (
	ReasonMissingCredential = "missing-credential"
	ReasonMissingAI         = "missing-ai-collaborator"
	ReasonGenerationFailed  = "generation-failed"
	ReasonDryRunOnly        = "dry-run-only"
)

// Options controls plan generation. The zero value is a dry run against main.
type Options struct {
	DryRun bool   `json:"dryRun"`
	Base   string `json:"base"`
}

// FileChange is one drafted file modification.
type FileChange struct {
	Path       string `json:"path"`
	Action     string `json:"action"`
	ContentB64 string `json:"content_b64"`
	Additions  int    `json:"additions"`
	Deletions  int    `json:"deletions"`
	Bytes      int    `json:"bytes"`
	Reason     string `json:"reason"`
}

// Plan is the drafted patch set. Applied is always false in the current
// design.
type Plan struct {
	Applied bool         `json:"applied"`
	DryRun  bool         `json:"dryRun,omitempty"`
	Reason  string       `json:"reason,omitempty"`
	Message string       `json:"message,omitempty"`
	Changes []FileChange `json:"changes,omitempty"`
	Branch  string       `json:"branch,omitempty"`
	Base    string       `json:"base,omitempty"`
	PRURL   string       `json:"prUrl,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// Generator drafts patch plans.
type Generator struct {
	ai             *gemini.Client
	hasGitHubToken bool
}

// New creates a patch plan generator. hasGitHubToken gates the feature: a
// plan that could never become a PR is not worth drafting.
func New(ai *gemini.Client, hasGitHubToken bool) *Generator {
	return &Generator{ai: ai, hasGitHubToken: hasGitHubToken}
}

// Generate drafts a plan for the query, steering the model toward the most
// successful known strategy when one exists.
func (g *Generator) Generate(ctx context.Context, profile *models.QueryProfile, report *models.PredictionReport, owner, repo string, opts Options) *Plan {
	if !g.hasGitHubToken {
		return &Plan{
			Reason:  ReasonMissingCredential,
			Message: "Cannot create PR without GitHub token",
		}
	}
	if !g.ai.Available() {
		return &Plan{
			Reason:  ReasonMissingAI,
			Message: "AI required for fix generation",
		}
	}

	base := opts.Base
	if base == "" {
		base = "main"
	}

	text, err := g.ai.GenerateContent(ctx, buildPrompt(profile, report, owner, repo))
	if err != nil {
		slog.Error("auto-fix generation failed", "error", err)
		return &Plan{
			Reason:  ReasonGenerationFailed,
			Message: "Fix generation failed",
			Error:   err.Error(),
		}
	}

	var changes []FileChange
	if err := json.Unmarshal([]byte(gemini.StripFences(text)), &changes); err != nil {
		slog.Error("auto-fix output unparseable", "error", err)
		return &Plan{
			Reason:  ReasonGenerationFailed,
			Message: "Fix generation failed",
			Error:   err.Error(),
		}
	}

	if opts.DryRun {
		return &Plan{
			DryRun:  true,
			Reason:  ReasonDryRunOnly,
			Changes: changes,
			Message: fmt.Sprintf("Dry-run: Would modify %d files", len(changes)),
		}
	}

	// Apply mode still only describes what would happen. Creating the
	// branch and PR stays out of scope.
	branch := fmt.Sprintf("codewhisper-fix-%d", time.Now().UnixMilli())
	return &Plan{
		Branch:  branch,
		Base:    base,
		Changes: changes,
		Message: "PR creation not implemented (plan only)",
		PRURL:   fmt.Sprintf("https://github.com/%s/%s/compare/%s...%s?expand=1", owner, repo, base, branch),
	}
}

func buildPrompt(profile *models.QueryProfile, report *models.PredictionReport, owner, repo string) string {
	var top *models.Prediction
	if report != nil && len(report.Predictions) > 0 {
		top = &report.Predictions[0]
	}

	var b strings.Builder
	b.WriteString("You are an expert code fixer. Generate a fix for this issue:\n\n")
	fmt.Fprintf(&b, "**Problem:** %s\n", profile.SearchTerms)
	fmt.Fprintf(&b, "**Keywords:** %s\n", strings.Join(profile.Keywords, ", "))
	fmt.Fprintf(&b, "**Repo:** %s/%s\n\n", owner, repo)
	if top != nil {
		fmt.Fprintf(&b, "**Most Successful Solution (%.0f%% success rate):** %s\n\n", top.SuccessRate*100, top.Label)
	}

	focus := "most likely fix"
	if top != nil {
		focus = top.Label
	}
	fmt.Fprintf(&b, `Generate a JSON array of file changes in this EXACT format (no markdown):
[
  {
    "path": "src/utils/fetch.js",
    "action": "modify",
    "content_b64": "base64_encoded_content_here",
    "additions": 10,
    "deletions": 2,
    "bytes": 1234,
    "reason": "Fix memory leak by adding AbortController"
  }
]

Rules:
1. Return ONLY the JSON array, no explanation
2. Use realistic file paths for %s projects
3. Encode content as base64
4. Focus on the %s
5. Maximum 3 files`, strings.Join(profile.TechStack, "/"), focus)

	return b.String()
}
