// Package responder phrases the final answer by delegating to the AI
// collaborator with the formatted report and predictions as grounding
// context. When the collaborator is unavailable or errors, the raw report is
// returned instead so the request still produces something useful.
package responder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"codewhisper/internal/gemini"
	"codewhisper/internal/models"
)

// Responder generates the final human-readable answer.
type Responder struct {
	ai *gemini.Client
}

// New creates a responder.
func New(ai *gemini.Client) *Responder {
	return &Responder{ai: ai}
}

// Generate returns the AI-phrased answer, or the raw formatted context when
// the collaborator cannot be used.
func (r *Responder) Generate(ctx context.Context, query, formatted string, report *models.PredictionReport) string {
	if !r.ai.Available() {
		return "## ⚠️ Gemini API Not Configured\n\n" + formatted
	}

	text, err := r.ai.GenerateContent(ctx, buildPrompt(query, formatted, report))
	if err != nil {
		slog.Error("ai response generation failed", "error", err)
		return "## ⚠️ AI Response Failed\n\n" + formatted
	}
	return text
}

func buildPrompt(query, formatted string, report *models.PredictionReport) string {
	var b strings.Builder

	b.WriteString("You are CodeWhisper, an expert code assistant.\n\n")
	fmt.Fprintf(&b, "**User Query:** %s\n\n", query)
	fmt.Fprintf(&b, "**Context:**\n%s\n", formatted)

	var top *models.Prediction
	if report != nil && len(report.Predictions) > 0 {
		top = &report.Predictions[0]

		b.WriteString("\n## 🎯 PROVEN SOLUTION ANALYSIS\n\n")
		for i, p := range report.Predictions {
			fmt.Fprintf(&b, "%d. **%s** - %.0f%% success rate (%d/%d worked)\n   Confidence: %s\n   Evidence: %s\n\n",
				i+1, p.Label, p.SuccessRate*100, p.SuccessCount, p.SuccessCount+p.FailureCount,
				p.Confidence, issueRefs(p.Evidence))
		}
	}

	b.WriteString(`
**Your Task:**
Provide a comprehensive response with:

1. 🎯 **Root Cause Analysis** - Be specific
2. ⚡ **Quick Wins** - 2-3 immediate fixes with code
`)
	if top != nil {
		fmt.Fprintf(&b, "3. 🏆 **RECOMMENDED SOLUTION** - Use the %q approach (%.0f%% proven success rate!)\n",
			top.Label, top.SuccessRate*100)
	} else {
		b.WriteString("3. 🏆 **RECOMMENDED SOLUTION** - Best approach based on context\n")
	}
	b.WriteString(`4. 📝 **Code Example** - Working implementation
5. 🔗 **Evidence** - Link to successful resolutions

Style: Confident, direct, use markdown, include emojis.
`)
	if top != nil {
		fmt.Fprintf(&b, "CRITICAL: Emphasize that the %s approach has PROVEN %.0f%% success in %d similar cases!\n",
			top.Label, top.SuccessRate*100, top.Trials)
	}
	b.WriteString("\nEnd with: \"🚀 Want me to generate a PR with this fix? Just say GO!\"")

	return b.String()
}

func issueRefs(evidence []models.EvidenceRef) string {
	refs := make([]string, 0, len(evidence))
	for _, e := range evidence {
		refs = append(refs, fmt.Sprintf("#%d", e.Issue))
	}
	return strings.Join(refs, ", ")
}
