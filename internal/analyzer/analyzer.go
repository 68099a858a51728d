// Package analyzer turns a free-text developer query into a structured
// QueryProfile. The primary path delegates to the AI collaborator; any
// delegation or parse failure falls back to a deterministic pattern matcher
// so a profile is always produced.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"codewhisper/internal/gemini"
	"codewhisper/internal/models"
)

const analyzePrompt = `Analyze this developer query and return ONLY valid JSON (no markdown):

Query: %q

Return format:
{
  "intent": "fix|optimize|debug|implement|understand",
  "keywords": ["keyword1", "keyword2"],
  "tech_stack": ["technology1", "technology2"],
  "search_terms": "optimized github search query",
  "severity": "critical|high|medium|low"
}`

// Analyzer produces QueryProfiles.
type Analyzer struct {
	ai *gemini.Client
}

// New creates an analyzer. ai may be an unconfigured client; the fallback
// path then runs unconditionally.
func New(ai *gemini.Client) *Analyzer {
	return &Analyzer{ai: ai}
}

// Analyze classifies the query. It never fails: the deterministic fallback
// covers AI unavailability, transport errors and unparseable output alike.
func (a *Analyzer) Analyze(ctx context.Context, query string) *models.QueryProfile {
	if a.ai.Available() {
		profile, err := a.analyzeWithAI(ctx, query)
		if err == nil {
			return profile
		}
		slog.Warn("ai query analysis failed, using fallback", "error", err)
	}
	return Fallback(query)
}

// analyzeWithAI delegates to the collaborator and validates its output.
// External model text is never trusted as structured data without checking
// the fields the pipeline depends on.
func (a *Analyzer) analyzeWithAI(ctx context.Context, query string) (*models.QueryProfile, error) {
	text, err := a.ai.GenerateContent(ctx, fmt.Sprintf(analyzePrompt, query))
	if err != nil {
		return nil, err
	}

	var profile models.QueryProfile
	if err := json.Unmarshal([]byte(gemini.StripFences(text)), &profile); err != nil {
		return nil, fmt.Errorf("parse ai analysis: %w", err)
	}
	if profile.SearchTerms == "" {
		return nil, fmt.Errorf("ai analysis missing search_terms")
	}
	if profile.Intent == "" {
		profile.Intent = models.IntentGeneral
	}
	if profile.Severity == "" {
		profile.Severity = models.SeverityMedium
	}
	return &profile, nil
}
